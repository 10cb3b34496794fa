package handler

import (
	"context"
	"time"

	"github.com/Eursukkul/room-booking/internal/auth"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/report"
	"github.com/Eursukkul/room-booking/internal/repository"
	"github.com/Eursukkul/room-booking/internal/service"
)

// --- Mock ReservationService ---

type mockReservationService struct {
	createFn       func(ctx context.Context, space *models.Space, actor *models.User, start, end time.Time, reason string) (*models.Reservation, error)
	updateFn       func(ctx context.Context, id uint, in service.UpdateReservationInput, actor *models.User) (*models.Reservation, error)
	setStatusFn    func(ctx context.Context, id uint, status models.ReservationStatus, note *string, actor *models.User) (*models.Reservation, error)
	deleteFn       func(ctx context.Context, id uint, actor *models.User) error
	conflictsFn    func(ctx context.Context, spaceID uint, from, to time.Time) ([]models.Reservation, error)
	conflictsForFn func(ctx context.Context, id uint) ([]models.Reservation, error)
	getFn          func(ctx context.Context, id uint) (*models.Reservation, error)
	listFn         func(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error)
	countFn        func(ctx context.Context) (int64, error)
}

func (m *mockReservationService) CreateReservation(ctx context.Context, space *models.Space, actor *models.User, start, end time.Time, reason string) (*models.Reservation, error) {
	return m.createFn(ctx, space, actor, start, end, reason)
}
func (m *mockReservationService) UpdateReservation(ctx context.Context, id uint, in service.UpdateReservationInput, actor *models.User) (*models.Reservation, error) {
	return m.updateFn(ctx, id, in, actor)
}
func (m *mockReservationService) SetStatus(ctx context.Context, id uint, status models.ReservationStatus, note *string, actor *models.User) (*models.Reservation, error) {
	return m.setStatusFn(ctx, id, status, note, actor)
}
func (m *mockReservationService) DeleteReservation(ctx context.Context, id uint, actor *models.User) error {
	return m.deleteFn(ctx, id, actor)
}
func (m *mockReservationService) FindConflicts(ctx context.Context, spaceID uint, from, to time.Time) ([]models.Reservation, error) {
	return m.conflictsFn(ctx, spaceID, from, to)
}
func (m *mockReservationService) FindConflictsFor(ctx context.Context, id uint) ([]models.Reservation, error) {
	return m.conflictsForFn(ctx, id)
}
func (m *mockReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return m.getFn(ctx, id)
}
func (m *mockReservationService) ListReservations(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	return m.listFn(ctx, filter)
}
func (m *mockReservationService) CountPending(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

// --- Mock CatalogService ---

type mockCatalogService struct {
	getSpaceFn   func(ctx context.Context, id uint) (*models.Space, error)
	toggleLockFn func(ctx context.Context, actor *models.User, id uint) (*models.Space, error)
	listSpacesFn func(ctx context.Context, sectorID uint) ([]models.Space, error)
}

func (m *mockCatalogService) CreateSector(ctx context.Context, actor *models.User, name string) (*models.Sector, error) {
	return &models.Sector{ID: 1, Name: name}, nil
}
func (m *mockCatalogService) ListSectors(ctx context.Context) ([]models.Sector, error) {
	return []models.Sector{{ID: 1, Name: "Bloco Norte"}}, nil
}
func (m *mockCatalogService) GetSector(ctx context.Context, id uint) (*models.Sector, error) {
	return &models.Sector{ID: id}, nil
}
func (m *mockCatalogService) CreateSpace(ctx context.Context, actor *models.User, name string, sectorID uint) (*models.Space, error) {
	return &models.Space{ID: 1, Name: name, SectorID: sectorID, LockState: models.LockFree}, nil
}
func (m *mockCatalogService) ListSpaces(ctx context.Context) ([]models.Space, error) {
	return nil, nil
}
func (m *mockCatalogService) ListSpacesBySector(ctx context.Context, sectorID uint) ([]models.Space, error) {
	return m.listSpacesFn(ctx, sectorID)
}
func (m *mockCatalogService) GetSpace(ctx context.Context, id uint) (*models.Space, error) {
	return m.getSpaceFn(ctx, id)
}
func (m *mockCatalogService) ToggleLock(ctx context.Context, actor *models.User, id uint) (*models.Space, error) {
	return m.toggleLockFn(ctx, actor, id)
}

// --- Mock UserService ---

type mockUserService struct {
	authenticateFn func(ctx context.Context, email, password string) (*models.User, auth.AccessToken, error)
	createFn       func(ctx context.Context, actor *models.User, in service.CreateUserInput) (*models.User, error)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, auth.AccessToken, error) {
	return m.authenticateFn(ctx, email, password)
}
func (m *mockUserService) CreateUser(ctx context.Context, actor *models.User, in service.CreateUserInput) (*models.User, error) {
	return m.createFn(ctx, actor, in)
}
func (m *mockUserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return nil, service.ErrUserNotFound
}
func (m *mockUserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	return nil
}

// --- Mock ReportService ---

type mockReportService struct {
	dashboardFn func(ctx context.Context, day time.Time, filter service.AgendaFilter) ([]models.Reservation, error)
	dailyFn     func(ctx context.Context, day time.Time, filter service.AgendaFilter) (*report.DailyAgenda, error)
}

func (m *mockReportService) Dashboard(ctx context.Context, day time.Time, filter service.AgendaFilter) ([]models.Reservation, error) {
	return m.dashboardFn(ctx, day, filter)
}
func (m *mockReportService) Daily(ctx context.Context, day time.Time, filter service.AgendaFilter) (*report.DailyAgenda, error) {
	return m.dailyFn(ctx, day, filter)
}

// --- Mock AuditRepository ---

type mockAuditRepo struct {
	entries []models.AuditEntry
}

func (m *mockAuditRepo) Record(ctx context.Context, entry *models.AuditEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}
func (m *mockAuditRepo) FindByReservation(ctx context.Context, reservationID uint) ([]models.AuditEntry, error) {
	var out []models.AuditEntry
	for _, e := range m.entries {
		if e.ReservationID == reservationID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- Fixtures ---

var (
	requester = &models.User{ID: 10, Name: "Ana Souza", Role: models.RoleRequester}
	scheduler = &models.User{ID: 20, Name: "Carla Dias", Role: models.RoleScheduler}
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func sampleSpace() *models.Space {
	return &models.Space{
		ID: 1, Name: "Auditório", SectorID: 1, LockState: models.LockFree,
		Sector: &models.Sector{ID: 1, Name: "Bloco Norte"},
	}
}
