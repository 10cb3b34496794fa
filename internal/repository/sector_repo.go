package repository

import (
	"context"

	"github.com/Eursukkul/room-booking/internal/models"
	"gorm.io/gorm"
)

type SectorRepository interface {
	Create(ctx context.Context, sector *models.Sector) error
	FindByID(ctx context.Context, id uint) (*models.Sector, error)
	FindAll(ctx context.Context) ([]models.Sector, error)
}

type sectorRepository struct {
	db *gorm.DB
}

func NewSectorRepository(db *gorm.DB) SectorRepository {
	return &sectorRepository{db: db}
}

func (r *sectorRepository) Create(ctx context.Context, sector *models.Sector) error {
	return r.db.WithContext(ctx).Create(sector).Error
}

func (r *sectorRepository) FindByID(ctx context.Context, id uint) (*models.Sector, error) {
	var sector models.Sector
	if err := r.db.WithContext(ctx).First(&sector, id).Error; err != nil {
		return nil, err
	}
	return &sector, nil
}

func (r *sectorRepository) FindAll(ctx context.Context) ([]models.Sector, error) {
	var sectors []models.Sector
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}
