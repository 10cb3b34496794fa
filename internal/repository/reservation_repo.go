package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
	"gorm.io/gorm"
)

// ReservationFilter narrows List. Zero values mean "no restriction".
type ReservationFilter struct {
	Statuses         []models.ReservationStatus
	SectorID         *uint
	SpaceID          *uint
	StartFrom        *time.Time // inclusive
	StartBefore      *time.Time // exclusive
	ExcludeCancelled bool
}

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindActiveBySpace(ctx context.Context, tx *gorm.DB, spaceID uint) ([]models.Reservation, error)
	FindOverlapping(ctx context.Context, spaceID uint, from, to time.Time, excludeID uint) ([]models.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	CountByStatus(ctx context.Context, status models.ReservationStatus) (int64, error)
	// UpdateStatus moves the reservation from status from to status to. It
	// returns gorm.ErrRecordNotFound when the row is gone or no longer in from.
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, from, to models.ReservationStatus, rejectionNote *string) error
	UpdateDetails(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	Delete(ctx context.Context, id uint) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return conn(r.db, tx).WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.withAssociations(r.db.WithContext(ctx)).First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindActiveBySpace returns every non-cancelled reservation of the space,
// without narrowing by time.
func (r *reservationRepository) FindActiveBySpace(ctx context.Context, tx *gorm.DB, spaceID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := conn(r.db, tx).WithContext(ctx).
		Where("space_id = ? AND status <> ?", spaceID, models.StatusCancelled).
		Order("start_at ASC, id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindOverlapping returns the non-cancelled reservations of the space whose
// interval overlaps [from, to), ordered by start. excludeID 0 excludes nothing.
func (r *reservationRepository) FindOverlapping(ctx context.Context, spaceID uint, from, to time.Time, excludeID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	q := r.withAssociations(r.db.WithContext(ctx)).
		Where("space_id = ? AND status <> ?", spaceID, models.StatusCancelled).
		Where("end_at > ? AND start_at < ?", from, to)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_at ASC, id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	var reservations []models.Reservation
	q := r.withAssociations(r.db.WithContext(ctx).Model(&models.Reservation{}))

	if len(filter.Statuses) > 0 {
		q = q.Where("reservations.status IN ?", filter.Statuses)
	}
	if filter.ExcludeCancelled {
		q = q.Where("reservations.status <> ?", models.StatusCancelled)
	}
	if filter.SpaceID != nil {
		q = q.Where("reservations.space_id = ?", *filter.SpaceID)
	}
	if filter.SectorID != nil {
		q = q.Joins("JOIN spaces ON spaces.id = reservations.space_id").
			Where("spaces.sector_id = ?", *filter.SectorID)
	}
	if filter.StartFrom != nil {
		q = q.Where("reservations.start_at >= ?", *filter.StartFrom)
	}
	if filter.StartBefore != nil {
		q = q.Where("reservations.start_at < ?", *filter.StartBefore)
	}

	if err := q.Order("reservations.start_at ASC, reservations.id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) CountByStatus(ctx context.Context, status models.ReservationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, from, to models.ReservationStatus, rejectionNote *string) error {
	updates := map[string]any{"status": to}
	if rejectionNote != nil {
		updates["rejection_note"] = *rejectionNote
	}
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateDetails persists the editable fields: space, window and reason.
func (r *reservationRepository) UpdateDetails(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	res := conn(r.db, tx).WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Updates(map[string]any{
			"space_id": reservation.SpaceID,
			"start_at": reservation.StartAt,
			"end_at":   reservation.EndAt,
			"reason":   reservation.Reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) withAssociations(q *gorm.DB) *gorm.DB {
	return q.Preload("Space.Sector").Preload("User")
}
