package repository

import (
	"context"

	"github.com/Eursukkul/room-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepository interface {
	// Record stores the entry once; a second delivery of the same message is a no-op.
	Record(ctx context.Context, entry *models.AuditEntry) error
	FindByReservation(ctx context.Context, reservationID uint) ([]models.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(entry).Error
}

func (r *auditRepository) FindByReservation(ctx context.Context, reservationID uint) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("occurred_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
