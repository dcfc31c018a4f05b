package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/skillbridge/registration-api/internal/cache"
	domain "github.com/skillbridge/registration-api/internal/domain/safeaction"
	"github.com/skillbridge/registration-api/internal/httperr"
	"github.com/skillbridge/registration-api/internal/models"
)

type SafeActionGormRepository struct {
	db    *gorm.DB
	cache *cache.SettingsCache
}

var _ domain.Repository = (*SafeActionGormRepository)(nil)

func NewSafeActionGormRepository(db *gorm.DB, c *cache.SettingsCache) *SafeActionGormRepository {
	return &SafeActionGormRepository{db: db, cache: c}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *SafeActionGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SafeActionGormRepository) BanUser(
	ctx context.Context,
	userID uint,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("banned", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrInvalidState("user_not_found")
	}
	return nil
}

func (r *SafeActionGormRepository) CountActiveUsers(
	ctx context.Context,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("banned = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Settings
// --------------------------------------------------

func (r *SafeActionGormRepository) GetSetting(
	ctx context.Context,
	key string,
) (*models.Setting, error) {

	var s models.Setting
	if err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSettingValue é o caminho de leitura pública, com cache.
// Mutation paths must use GetSetting so the version token is fresh.
func (r *SafeActionGormRepository) GetSettingValue(
	ctx context.Context,
	key string,
) (string, error) {

	if val, ok := r.cache.Get(ctx, key); ok {
		return val, nil
	}

	s, err := r.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}

	r.cache.Put(ctx, key, s.Value)
	return s.Value, nil
}

func (r *SafeActionGormRepository) ListSettings(
	ctx context.Context,
) ([]models.Setting, error) {

	var settings []models.Setting
	if err := r.db.WithContext(ctx).
		Order("key ASC").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SafeActionGormRepository) UpdateSettingWithHistory(
	ctx context.Context,
	setting *models.Setting,
	newValue string,
	entry *models.SettingsHistory,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// compare-and-set: a versão lida precisa ainda ser a atual
		res := tx.Model(&models.Setting{}).
			Where("key = ? AND version = ?", setting.Key, setting.Version).
			Updates(map[string]any{
				"value":      newValue,
				"version":    setting.Version + 1,
				"updated_by": entry.ChangedBy,
				"updated_at": time.Now().UTC(),
			})

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrConflict("setting_version_conflict")
		}

		return tx.Create(entry).Error
	})

	if err != nil {
		return err
	}

	r.cache.Invalidate(ctx, setting.Key)
	return nil
}

// --------------------------------------------------
// Settings History
// --------------------------------------------------

func (r *SafeActionGormRepository) GetHistoryEntry(
	ctx context.Context,
	id uint,
) (*models.SettingsHistory, error) {

	var entry models.SettingsHistory
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SafeActionGormRepository) ListHistory(
	ctx context.Context,
	settingKey string,
	limit int,
) ([]models.SettingsHistory, error) {

	q := r.db.WithContext(ctx).Model(&models.SettingsHistory{})
	if settingKey != "" {
		q = q.Where("setting_key = ?", settingKey)
	}

	var entries []models.SettingsHistory
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// --------------------------------------------------
// Pending Actions
// --------------------------------------------------

func (r *SafeActionGormRepository) CreatePendingAction(
	ctx context.Context,
	ap *models.PendingAction,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *SafeActionGormRepository) GetPendingAction(
	ctx context.Context,
	id string,
) (*models.PendingAction, error) {

	var ap models.PendingAction
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrInvalidState("action_not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *SafeActionGormRepository) ListActions(
	ctx context.Context,
) ([]models.PendingAction, error) {

	var actions []models.PendingAction
	if err := r.db.WithContext(ctx).
		Order("scheduled_for ASC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *SafeActionGormRepository) ListDueActions(
	ctx context.Context,
) ([]models.PendingAction, error) {

	var actions []models.PendingAction
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", models.PendingStatusPending, time.Now().UTC()).
		Order("scheduled_for ASC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *SafeActionGormRepository) TransitionStatus(
	ctx context.Context,
	id string,
	to models.PendingActionStatus,
	extra map[string]any,
) error {

	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	// guarded transition: só sai de pending, nunca volta
	res := r.db.WithContext(ctx).
		Model(&models.PendingAction{}).
		Where("id = ? AND status = ?", id, models.PendingStatusPending).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		// re-check against the persisted row so the caller gets the
		// real current status, not a stale copy
		var current models.PendingAction
		if err := r.db.WithContext(ctx).First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrInvalidState("action_not_found")
			}
			return err
		}
		return httperr.ErrInvalidState("action_not_pending")
	}

	return nil
}
