package repository

import (
	"context"

	"github.com/Eursukkul/room-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SpaceRepository interface {
	Create(ctx context.Context, space *models.Space) error
	FindByID(ctx context.Context, id uint) (*models.Space, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Space, error)
	FindAll(ctx context.Context) ([]models.Space, error)
	FindBySector(ctx context.Context, sectorID uint) ([]models.Space, error)
	UpdateLockState(ctx context.Context, tx *gorm.DB, id uint, state models.LockState) error
}

type spaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) SpaceRepository {
	return &spaceRepository{db: db}
}

func (r *spaceRepository) Create(ctx context.Context, space *models.Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

func (r *spaceRepository) FindByID(ctx context.Context, id uint) (*models.Space, error) {
	var space models.Space
	if err := r.db.WithContext(ctx).Preload("Sector").First(&space, id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

// FindByIDForUpdate acquires a row-level lock on the space within the given
// transaction. Every admission for the space queues behind this lock.
func (r *spaceRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Space, error) {
	var space models.Space
	if err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&space, id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *spaceRepository) FindAll(ctx context.Context) ([]models.Space, error) {
	var spaces []models.Space
	if err := r.db.WithContext(ctx).Preload("Sector").Order("id ASC").Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

func (r *spaceRepository) FindBySector(ctx context.Context, sectorID uint) ([]models.Space, error) {
	var spaces []models.Space
	if err := r.db.WithContext(ctx).Where("sector_id = ?", sectorID).Order("id ASC").Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

func (r *spaceRepository) UpdateLockState(ctx context.Context, tx *gorm.DB, id uint, state models.LockState) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.Space{}).
		Where("id = ?", id).
		Update("lock_state", state).Error
}
