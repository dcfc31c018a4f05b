package safeaction

import (
	"testing"
	"time"

	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

func pendingAt(status models.PendingActionStatus, scheduledFor time.Time) *models.PendingAction {
	return &models.PendingAction{
		ID:           "a",
		Status:       status,
		ScheduledFor: scheduledFor,
	}
}

func TestCanCancelOnlyPendingBeforeDeadline(t *testing.T) {
	now := time.Now().UTC()

	if err := CanCancel(pendingAt(models.PendingStatusPending, now.Add(time.Minute)), now); err != nil {
		t.Fatalf("expected cancellable, got %v", err)
	}

	err := CanCancel(pendingAt(models.PendingStatusPending, now.Add(-time.Second)), now)
	if !httperr.IsBusiness(err, "action_past_deadline") {
		t.Fatalf("expected action_past_deadline, got %v", err)
	}

	for _, status := range []models.PendingActionStatus{
		models.PendingStatusExecuted,
		models.PendingStatusCancelled,
		models.PendingStatusExpired,
	} {
		err := CanCancel(pendingAt(status, now.Add(time.Minute)), now)
		if !httperr.IsBusiness(err, "action_not_pending") {
			t.Fatalf("expected action_not_pending for %s, got %v", status, err)
		}
	}
}

func TestCanExecuteOnlyDuePending(t *testing.T) {
	now := time.Now().UTC()

	if err := CanExecute(pendingAt(models.PendingStatusPending, now.Add(-time.Second)), now); err != nil {
		t.Fatalf("expected executable, got %v", err)
	}

	err := CanExecute(pendingAt(models.PendingStatusPending, now.Add(time.Minute)), now)
	if !httperr.IsBusiness(err, "action_not_due") {
		t.Fatalf("expected action_not_due, got %v", err)
	}

	err = CanExecute(pendingAt(models.PendingStatusCancelled, now.Add(-time.Minute)), now)
	if !httperr.IsBusiness(err, "action_not_pending") {
		t.Fatalf("expected action_not_pending, got %v", err)
	}
}

func TestTimeRemainingClampsAtZero(t *testing.T) {
	now := time.Now().UTC()

	if got := TimeRemaining(pendingAt(models.PendingStatusPending, now.Add(90*time.Second)), now); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	if got := TimeRemaining(pendingAt(models.PendingStatusPending, now.Add(-time.Hour)), now); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now().UTC()

	if IsExpired(pendingAt(models.PendingStatusPending, now.Add(-time.Hour)), now) {
		t.Fatalf("one hour overdue must not be expired yet")
	}
	if !IsExpired(pendingAt(models.PendingStatusPending, now.Add(-25*time.Hour)), now) {
		t.Fatalf("25h overdue must be expired")
	}
	if IsExpired(pendingAt(models.PendingStatusExecuted, now.Add(-25*time.Hour)), now) {
		t.Fatalf("executed actions never expire")
	}
}
