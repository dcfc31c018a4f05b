package safeaction

import (
	"context"
	"encoding/json"

	"github.com/skillbridge/registration-api/internal/audit"
	"github.com/skillbridge/registration-api/internal/catalog"
	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

// settingPayload é o payload opaco de uma PendingAction que mexe em settings
type settingPayload struct {
	SettingKey string `json:"setting_key"`
	NewValue   string `json:"new_value"`
}

func encodePayload(p settingPayload) string {
	b, _ := json.Marshal(p)
	return string(b)
}

func decodePayload(raw string) (settingPayload, error) {
	var p settingPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return p, httperr.ErrInvalidState("malformed_payload")
	}
	return p, nil
}

// mutateSetting is the single mutation path shared by the immediate branch,
// the due-action executor and rollback. The old value is read fresh here,
// right before the compare-and-set, never from a caller-held copy.
func mutateSetting(
	ctx context.Context,
	repo domain.Repository,
	auditLogger *audit.Logger,
	actorID uint,
	changedBy string,
	actionType string,
	settingKey string,
	newValue string,
	reason string,
) (*models.Setting, error) {

	current, err := repo.GetSetting(ctx, settingKey)
	if err != nil {
		return nil, err
	}

	oldValue := current.Value
	entry := models.SettingsHistory{
		SettingKey:   settingKey,
		OldValue:     &oldValue,
		NewValue:     newValue,
		ChangedBy:    changedBy,
		ChangeReason: reason,
	}

	if err := repo.UpdateSettingWithHistory(ctx, current, newValue, &entry); err != nil {
		return nil, err
	}

	// a mutação já commitou: perder o audit aqui é o caso alert-worthy
	if err := auditLogger.LogCritical(&actorID, actionType, "settings", settingKey, map[string]any{
		"old_value": oldValue,
		"new_value": newValue,
		"reason":    reason,
	}); err != nil {
		return nil, httperr.ErrPersistence("audit_write_failed")
	}

	current.Value = newValue
	current.Version++
	current.UpdatedBy = changedBy
	return current, nil
}

// labelFor devolve o label do catálogo, com fallback para o próprio id
func labelFor(actionType string) string {
	if d, ok := catalog.Lookup(actionType); ok {
		return d.Label
	}
	return actionType
}
