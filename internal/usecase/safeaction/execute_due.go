package safeaction

import (
	"context"
	"log"
	"time"

	"github.com/skillbridge/registration-api/internal/audit"
	"github.com/skillbridge/registration-api/internal/catalog"
	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

// ExecuteDueAction applies a due pending action. This is the execution
// trigger contract: given a due action it performs the same
// mutation+history+audit sequence as the immediate path.
//
// The status transition happens before the mutation: the conditional
// pending->executed update is what guarantees that a cancel and an execute
// can never both win, so a cancelled action never mutates anything.
type ExecuteDueAction struct {
	repo     domain.Repository
	auditLog *audit.Logger
}

func NewExecuteDueAction(
	repo domain.Repository,
	auditLog *audit.Logger,
) *ExecuteDueAction {
	return &ExecuteDueAction{
		repo:     repo,
		auditLog: auditLog,
	}
}

func (uc *ExecuteDueAction) Execute(
	ctx context.Context,
	actionID string,
) error {

	ap, err := uc.repo.GetPendingAction(ctx, actionID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if domain.IsExpired(ap, now) {
		if err := uc.repo.TransitionStatus(ctx, ap.ID, models.PendingStatusExpired, nil); err != nil {
			return err
		}
		if err := uc.auditLog.LogCritical(&ap.ActorID, "action_expired", ap.TargetTable, ap.ID, map[string]any{
			"action":        ap.ActionType,
			"scheduled_for": ap.ScheduledFor,
		}); err != nil {
			return httperr.ErrPersistence("audit_write_failed")
		}
		return httperr.ErrInvalidState("action_expired")
	}

	if err := domain.CanExecute(ap, now); err != nil {
		return err
	}

	// claim first — perder aqui significa que um cancel chegou antes
	if err := uc.repo.TransitionStatus(ctx, ap.ID, models.PendingStatusExecuted, nil); err != nil {
		return err
	}

	actor, err := uc.repo.GetUserByID(ctx, ap.ActorID)
	if err != nil {
		return err
	}

	if err := uc.apply(ctx, ap, actor); err != nil {
		// o status já foi para executed e nunca reverte; a aplicação
		// falhou depois do claim, então isto precisa de operador
		log.Printf("ALERT: pending action %s claimed but failed to apply: %v", ap.ID, err)
		return err
	}

	return uc.auditLog.LogCritical(&ap.ActorID, "action_executed", ap.TargetTable, ap.ID, map[string]any{
		"action": ap.ActionType,
		"tier":   ap.ActionTier,
	})
}

func (uc *ExecuteDueAction) apply(
	ctx context.Context,
	ap *models.PendingAction,
	actor *models.User,
) error {

	if ap.ActionType == catalog.ActionBanUser {
		if ap.TargetID == nil {
			return httperr.ErrInvalidState("malformed_payload")
		}
		return uc.repo.BanUser(ctx, *ap.TargetID)
	}

	payload, err := decodePayload(ap.Payload)
	if err != nil {
		return err
	}

	_, err = mutateSetting(
		ctx, uc.repo, uc.auditLog,
		actor.ID, actor.Email,
		ap.ActionType, payload.SettingKey, payload.NewValue, ap.Justification,
	)
	return err
}
