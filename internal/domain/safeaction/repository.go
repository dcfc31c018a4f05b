package safeaction

import (
	"context"

	"github.com/skillbridge/registration-api/internal/models"
)

type Repository interface {
	// -------- Users --------
	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	BanUser(
		ctx context.Context,
		userID uint,
	) error

	CountActiveUsers(
		ctx context.Context,
	) (int64, error)

	// -------- Settings --------
	GetSetting(
		ctx context.Context,
		key string,
	) (*models.Setting, error)

	// GetSettingValue is the cached read path. Mutations must use
	// GetSetting so the version token is fresh.
	GetSettingValue(
		ctx context.Context,
		key string,
	) (string, error)

	ListSettings(
		ctx context.Context,
	) ([]models.Setting, error)

	// UpdateSettingWithHistory applies a compare-and-set on the setting's
	// version and appends the history entry in the same transaction.
	// A version mismatch returns a conflict error and writes nothing.
	UpdateSettingWithHistory(
		ctx context.Context,
		setting *models.Setting,
		newValue string,
		entry *models.SettingsHistory,
	) error

	// -------- Settings History --------
	GetHistoryEntry(
		ctx context.Context,
		id uint,
	) (*models.SettingsHistory, error)

	ListHistory(
		ctx context.Context,
		settingKey string,
		limit int,
	) ([]models.SettingsHistory, error)

	// -------- Pending Actions --------
	CreatePendingAction(
		ctx context.Context,
		ap *models.PendingAction,
	) error

	GetPendingAction(
		ctx context.Context,
		id string,
	) (*models.PendingAction, error)

	ListActions(
		ctx context.Context,
	) ([]models.PendingAction, error)

	ListDueActions(
		ctx context.Context,
	) ([]models.PendingAction, error)

	// TransitionStatus is conditional on the current status being pending;
	// losing the race returns an invalid_state error.
	TransitionStatus(
		ctx context.Context,
		id string,
		to models.PendingActionStatus,
		extra map[string]any,
	) error
}
