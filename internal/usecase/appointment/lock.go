package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
)

func acquireSlot(
	ctx context.Context,
	locker lock.Locker,
	doctorID uint,
	date time.Time,
) (func(), error) {
	release, err := locker.Acquire(ctx, lock.SlotKey(doctorID, date))
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			return nil, domain.ErrBookingInProgress
		}
		return nil, err
	}
	return release, nil
}
