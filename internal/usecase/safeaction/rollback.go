package safeaction

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillbridge/registration-api/internal/audit"
	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

type RollbackSetting struct {
	repo     domain.Repository
	auditLog *audit.Logger
}

func NewRollbackSetting(
	repo domain.Repository,
	auditLog *audit.Logger,
) *RollbackSetting {
	return &RollbackSetting{
		repo:     repo,
		auditLog: auditLog,
	}
}

func (uc *RollbackSetting) Execute(
	ctx context.Context,
	entryID uint,
	actorID uint,
) (*models.Setting, error) {

	entry, err := uc.repo.GetHistoryEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrInvalidState("history_entry_not_found")
		}
		return nil, err
	}

	// a entrada mais recente já é o estado atual — não é alvo de rollback
	latest, err := uc.repo.ListHistory(ctx, entry.SettingKey, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) > 0 && latest[0].ID == entry.ID {
		return nil, httperr.ErrInvalidState("entry_is_current")
	}

	// Restore target is the entry's old value. A null old value falls back
	// to the entry's own new value (a no-op restore for malformed rows);
	// the fallback is applied here and nowhere else.
	target := entry.NewValue
	if entry.OldValue != nil {
		target = *entry.OldValue
	}

	actor, err := uc.repo.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("rollback of %s to history entry #%d", entry.SettingKey, entry.ID)

	current, err := uc.repo.GetSetting(ctx, entry.SettingKey)
	if err != nil {
		return nil, err
	}

	oldValue := current.Value
	rolledBackFrom := entry.ID
	histEntry := models.SettingsHistory{
		SettingKey:     entry.SettingKey,
		OldValue:       &oldValue,
		NewValue:       target,
		ChangedBy:      actor.Email,
		ChangeReason:   reason,
		IsRollback:     true,
		RolledBackFrom: &rolledBackFrom,
	}

	if err := uc.repo.UpdateSettingWithHistory(ctx, current, target, &histEntry); err != nil {
		return nil, err
	}

	if err := uc.auditLog.LogCritical(&actorID, "setting_rollback", "settings", entry.SettingKey, map[string]any{
		"rolled_back_from": entry.ID,
		"old_value":        oldValue,
		"new_value":        target,
	}); err != nil {
		return nil, httperr.ErrPersistence("audit_write_failed")
	}

	current.Value = target
	current.Version++
	current.UpdatedBy = actor.Email
	return current, nil
}
