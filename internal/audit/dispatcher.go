package audit

import (
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
	RequestID string
}

// Writer grava um evento. *Logger é a implementação de produção.
type Writer interface {
	Write(ev Event) error
}

type Dispatcher struct {
	writer Writer
	logger *zap.Logger
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(writer Writer, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		logger: logger,
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.writer.Write(ev); err != nil {
			d.logger.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.String("request_id", ev.RequestID),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drena a fila e espera o worker terminar. Dispatch após Close é proibido.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
