package database

import (
	"log"
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := Open(dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	return db
}

// Open connects and sizes the pool without touching the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	return db, nil
}

// Migrate creates or updates the schema. Conflict lookups only look at live
// reservations of one space, hence the partial index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Sector{},
		&models.Space{},
		&models.User{},
		&models.Reservation{},
		&models.AuditEntry{},
	); err != nil {
		return err
	}

	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservation_live_window
		ON reservations (space_id, start_at, end_at)
		WHERE status <> 'CANCELLED'
	`).Error
}
