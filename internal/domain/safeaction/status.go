package safeaction

import (
	"time"

	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

// ===============================
// Pending Action Status
// ===============================

// CanCancel define se uma ação pendente ainda pode ser cancelada
func CanCancel(ap *models.PendingAction, now time.Time) error {
	if ap.Status != models.PendingStatusPending {
		return httperr.ErrInvalidState("action_not_pending")
	}
	if !now.Before(ap.ScheduledFor) {
		return httperr.ErrInvalidState("action_past_deadline")
	}
	return nil
}

// CanExecute define se uma ação pendente está pronta para executar
func CanExecute(ap *models.PendingAction, now time.Time) error {
	if ap.Status != models.PendingStatusPending {
		return httperr.ErrInvalidState("action_not_pending")
	}
	if now.Before(ap.ScheduledFor) {
		return httperr.ErrInvalidState("action_not_due")
	}
	return nil
}

// ExpiryWindow: due actions never picked up within this window are marked
// expired instead of executed.
const ExpiryWindow = 24 * time.Hour

func IsExpired(ap *models.PendingAction, now time.Time) bool {
	return ap.Status == models.PendingStatusPending &&
		now.Sub(ap.ScheduledFor) > ExpiryWindow
}

// TimeRemaining clamps at zero; zero means the executor is due or overdue.
func TimeRemaining(ap *models.PendingAction, now time.Time) time.Duration {
	d := ap.ScheduledFor.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
