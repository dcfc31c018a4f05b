package safeaction

import (
	"context"
	"strings"
	"time"

	"github.com/skillbridge/registration-api/internal/audit"
	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

type CancelPendingAction struct {
	repo     domain.Repository
	auditLog *audit.Logger
}

func NewCancelPendingAction(
	repo domain.Repository,
	auditLog *audit.Logger,
) *CancelPendingAction {
	return &CancelPendingAction{
		repo:     repo,
		auditLog: auditLog,
	}
}

func (uc *CancelPendingAction) Execute(
	ctx context.Context,
	actionID string,
	actorID uint,
	reason string,
) (*models.PendingAction, error) {

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, httperr.ErrValidation("cancel_reason_required")
	}

	ap, err := uc.repo.GetPendingAction(ctx, actionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := domain.CanCancel(ap, now); err != nil {
		return nil, err
	}

	// a transição é condicional no banco: se o executor ganhou a corrida
	// entre o check acima e aqui, isto falha com invalid_state
	if err := uc.repo.TransitionStatus(ctx, ap.ID, models.PendingStatusCancelled, map[string]any{
		"cancelled_at":     now,
		"cancelled_reason": reason,
	}); err != nil {
		return nil, err
	}

	if err := uc.auditLog.LogCritical(&actorID, "action_cancelled", ap.TargetTable, ap.ID, map[string]any{
		"action": ap.ActionType,
		"reason": reason,
	}); err != nil {
		return nil, httperr.ErrPersistence("audit_write_failed")
	}

	ap.Status = models.PendingStatusCancelled
	ap.CancelledAt = &now
	ap.CancelledReason = reason
	return ap, nil
}
