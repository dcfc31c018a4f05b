package audit

import "log"

type Event struct {
	ActorID     *uint
	ActionType  string
	TargetTable string
	TargetID    string
	Metadata    any
}

// Dispatcher grava eventos de auditoria não-críticos em background
// (tentativas de reauth falhas, leituras administrativas). Critical
// writes go through Logger.LogCritical on the caller's path instead.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100), // buffer seguro
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.ActorID,
			ev.ActionType,
			ev.TargetTable,
			ev.TargetID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		log.Println("audit queue full, dropping event")
	}
}
