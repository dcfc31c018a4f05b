package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skillbridge/registration-api/internal/config"
	"github.com/skillbridge/registration-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := SeedSettings(db); err != nil {
		log.Fatalf("failed to seed settings: %v", err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.SettingsHistory{},
		&models.PendingAction{},
		&models.ActionLog{},
	)
}

// SeedSettings garante as chaves default sem sobrescrever valores já
// mutados pelo caminho administrado.
func SeedSettings(db *gorm.DB) error {
	defaults := []models.Setting{
		{Key: models.SettingRegistrationOpen, Value: "true", Description: "Student registration window is open", Version: 1},
		{Key: models.SettingPaymentsEnabled, Value: "true", Description: "Payment collection is enabled", Version: 1},
		{Key: models.SettingRegistrationFee, Value: "5000", Description: "Registration fee amount", Version: 1},
		{Key: models.SettingSystemFrozen, Value: "false", Description: "Portal is frozen", Version: 1},
		{Key: models.SettingMaintenanceMode, Value: "false", Description: "Portal is in maintenance mode", Version: 1},
		{Key: models.SettingEmailNotifications, Value: "true", Description: "Outgoing email notifications", Version: 1},
	}

	for _, s := range defaults {
		var count int64
		if err := db.Model(&models.Setting{}).
			Where("key = ?", s.Key).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&s).Error; err != nil {
			if IsUniqueViolation(err) {
				continue // outro nó semeou primeiro
			}
			return err
		}
	}

	return nil
}
