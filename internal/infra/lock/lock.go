package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBusy indica que outra requisição segura a mesma chave.
var ErrBusy = errors.New("lock: key busy")

// Locker serializa check-then-insert por chave (médico + dia).
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// SlotKey monta a chave do lock para um médico num dia.
func SlotKey(doctorID uint, date time.Time) string {
	return fmt.Sprintf("slot-lock:%d:%s", doctorID, date.Format("2006-01-02"))
}

// Noop é usado quando não há Redis configurado; o índice único do banco
// continua sendo a última barreira.
type Noop struct{}

func (Noop) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
