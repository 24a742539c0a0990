package store

import (
	"fmt"
	"log"

	"grateful-service/internal/config"
	"grateful-service/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the GORM-backed Store implementation.
type DB struct {
	db *gorm.DB
}

func New(cfg *config.Config) (*DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBSSLMode,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	// Auto-migrate (safe in dev; use migrations in prod)
	err = db.AutoMigrate(
		&models.User{},
		&models.Circle{},
		&models.CircleMember{},
		&models.GratitudeEntry{},
		&models.EntryReaction{},
		&models.EntryComment{},
		&models.PushToken{},
		&models.NotificationPreference{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	log.Println("✅ DB connected & migrated")
	return &DB{db: db}, nil
}

// Gorm exposes the underlying handle for wiring code that needs it.
func (d *DB) Gorm() *gorm.DB {
	return d.db
}
