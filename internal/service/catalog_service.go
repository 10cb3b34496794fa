package service

import (
	"context"
	"strings"

	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"gorm.io/gorm"
)

// CatalogService manages sectors and the spaces that belong to them.
type CatalogService interface {
	CreateSector(ctx context.Context, actor *models.User, name string) (*models.Sector, error)
	ListSectors(ctx context.Context) ([]models.Sector, error)
	GetSector(ctx context.Context, id uint) (*models.Sector, error)
	CreateSpace(ctx context.Context, actor *models.User, name string, sectorID uint) (*models.Space, error)
	ListSpaces(ctx context.Context) ([]models.Space, error)
	ListSpacesBySector(ctx context.Context, sectorID uint) ([]models.Space, error)
	GetSpace(ctx context.Context, id uint) (*models.Space, error)
	ToggleLock(ctx context.Context, actor *models.User, spaceID uint) (*models.Space, error)
}

type catalogService struct {
	tx         repository.Transactor
	sectorRepo repository.SectorRepository
	spaceRepo  repository.SpaceRepository
}

func NewCatalogService(tx repository.Transactor, sectorRepo repository.SectorRepository, spaceRepo repository.SpaceRepository) CatalogService {
	return &catalogService{tx: tx, sectorRepo: sectorRepo, spaceRepo: spaceRepo}
}

func (s *catalogService) CreateSector(ctx context.Context, actor *models.User, name string) (*models.Sector, error) {
	if actor == nil || !actor.CanApprove() {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	sector := &models.Sector{Name: name}
	if err := s.sectorRepo.Create(ctx, sector); err != nil {
		return nil, err
	}
	return sector, nil
}

func (s *catalogService) ListSectors(ctx context.Context) ([]models.Sector, error) {
	return s.sectorRepo.FindAll(ctx)
}

func (s *catalogService) GetSector(ctx context.Context, id uint) (*models.Sector, error) {
	sector, err := s.sectorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSectorNotFound)
	}
	return sector, nil
}

func (s *catalogService) CreateSpace(ctx context.Context, actor *models.User, name string, sectorID uint) (*models.Space, error) {
	if actor == nil || !actor.CanApprove() {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	sector, err := s.sectorRepo.FindByID(ctx, sectorID)
	if err != nil {
		return nil, notFound(err, ErrSectorNotFound)
	}

	space := &models.Space{Name: name, SectorID: sector.ID, LockState: models.LockFree}
	if err := s.spaceRepo.Create(ctx, space); err != nil {
		return nil, err
	}
	space.Sector = sector
	return space, nil
}

func (s *catalogService) ListSpaces(ctx context.Context) ([]models.Space, error) {
	return s.spaceRepo.FindAll(ctx)
}

func (s *catalogService) ListSpacesBySector(ctx context.Context, sectorID uint) ([]models.Space, error) {
	if _, err := s.sectorRepo.FindByID(ctx, sectorID); err != nil {
		return nil, notFound(err, ErrSectorNotFound)
	}
	return s.spaceRepo.FindBySector(ctx, sectorID)
}

func (s *catalogService) GetSpace(ctx context.Context, id uint) (*models.Space, error) {
	space, err := s.spaceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSpaceNotFound)
	}
	return space, nil
}

// ToggleLock flips FREE and LOCKED under the same row lock admissions take,
// so a reservation cannot slip in while the space is being locked.
func (s *catalogService) ToggleLock(ctx context.Context, actor *models.User, spaceID uint) (*models.Space, error) {
	if actor == nil || !actor.CanApprove() {
		return nil, ErrForbidden
	}

	var result *models.Space
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		space, err := s.spaceRepo.FindByIDForUpdate(ctx, tx, spaceID)
		if err != nil {
			return notFound(err, ErrSpaceNotFound)
		}
		space.LockState = space.ToggledLockState()
		if err := s.spaceRepo.UpdateLockState(ctx, tx, space.ID, space.LockState); err != nil {
			return err
		}
		result = space
		return nil
	})
	return result, err
}
