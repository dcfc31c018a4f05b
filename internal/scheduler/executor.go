package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	ucSafeaction "github.com/skillbridge/registration-api/internal/usecase/safeaction"
)

// Executor is the execution trigger for delayed actions: it polls for
// pending actions whose schedule has passed and applies them one by one.
// Lost races against a concurrent cancel are expected and not an error.
type Executor struct {
	repo       domain.Repository
	executeDue *ucSafeaction.ExecuteDueAction
	interval   time.Duration
	stop       chan struct{}
}

func NewExecutor(
	repo domain.Repository,
	executeDue *ucSafeaction.ExecuteDueAction,
	interval time.Duration,
) *Executor {
	return &Executor{
		repo:       repo,
		executeDue: executeDue,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

func (e *Executor) Start() {
	go e.loop()
}

func (e *Executor) Stop() {
	close(e.stop)
}

func (e *Executor) loop() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.runOnce()
		}
	}
}

func (e *Executor) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := e.repo.ListDueActions(ctx)
	if err != nil {
		log.Printf("executor: failed to list due actions: %v", err)
		return
	}

	for _, ap := range due {
		if err := e.executeDue.Execute(ctx, ap.ID); err != nil {
			var be httperr.BusinessError
			if errors.As(err, &be) && be.Kind == httperr.KindInvalidState {
				// cancelada ou já executada por outro nó — segue o jogo
				continue
			}
			log.Printf("executor: action %s failed: %v", ap.ID, err)
		}
	}
}
