package scheduler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillbridge/registration-api/internal/audit"
	dbpkg "github.com/skillbridge/registration-api/internal/db"
	infraRepo "github.com/skillbridge/registration-api/internal/infra/repository"
	"github.com/skillbridge/registration-api/internal/models"
	ucSafeaction "github.com/skillbridge/registration-api/internal/usecase/safeaction"
)

func newTestExecutor(t *testing.T) (*Executor, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := dbpkg.SeedSettings(db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	actor := models.User{Name: "Admin", Email: "admin@example.test", PasswordHash: "x", Role: models.RoleAdmin}
	if err := db.Create(&actor).Error; err != nil {
		t.Fatalf("failed to create actor: %v", err)
	}

	repo := infraRepo.NewSafeActionGormRepository(db, nil)
	auditLogger := audit.New(db)
	executeDue := ucSafeaction.NewExecuteDueAction(repo, auditLogger)

	return NewExecutor(repo, executeDue, time.Hour), db
}

func duePayload(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"setting_key": models.SettingSystemFrozen,
		"new_value":   "true",
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return string(b)
}

func TestRunOnceExecutesDueActions(t *testing.T) {
	exec, db := newTestExecutor(t)

	ap := models.PendingAction{
		ID:           "22222222-2222-2222-2222-222222222222",
		ActorID:      1,
		ActionType:   "freeze_system",
		ActionTier:   "tier3",
		Payload:      duePayload(t),
		TargetTable:  "settings",
		ScheduledFor: time.Now().UTC().Add(-time.Minute),
		Status:       models.PendingStatusPending,
	}
	if err := db.Create(&ap).Error; err != nil {
		t.Fatalf("failed to create pending action: %v", err)
	}

	exec.runOnce()

	var reloaded models.PendingAction
	if err := db.First(&reloaded, "id = ?", ap.ID).Error; err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.Status != models.PendingStatusExecuted {
		t.Fatalf("expected executed, got %s", reloaded.Status)
	}

	var setting models.Setting
	if err := db.First(&setting, "key = ?", models.SettingSystemFrozen).Error; err != nil {
		t.Fatalf("failed to read setting: %v", err)
	}
	if setting.Value != "true" {
		t.Fatalf("due action did not apply: %s", setting.Value)
	}
}

func TestRunOnceSkipsCancelledActions(t *testing.T) {
	exec, db := newTestExecutor(t)

	ap := models.PendingAction{
		ID:           "33333333-3333-3333-3333-333333333333",
		ActorID:      1,
		ActionType:   "freeze_system",
		ActionTier:   "tier3",
		Payload:      duePayload(t),
		TargetTable:  "settings",
		ScheduledFor: time.Now().UTC().Add(-time.Minute),
		Status:       models.PendingStatusCancelled,
	}
	if err := db.Create(&ap).Error; err != nil {
		t.Fatalf("failed to create action: %v", err)
	}

	exec.runOnce()

	var setting models.Setting
	if err := db.First(&setting, "key = ?", models.SettingSystemFrozen).Error; err != nil {
		t.Fatalf("failed to read setting: %v", err)
	}
	if setting.Value != "false" {
		t.Fatalf("cancelled action must never execute, got %s", setting.Value)
	}
}
