package service

import (
	"context"
	"sync"
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"gorm.io/gorm"
)

// --- Mock Transactor ---

// mockTx runs fn without a database; repositories receive a nil tx.
type mockTx struct {
	calls int
}

func (m *mockTx) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.calls++
	return fn(nil)
}

// --- Mock SpaceRepository ---

type mockSpaceRepo struct {
	createFn          func(ctx context.Context, space *models.Space) error
	findByIDFn        func(ctx context.Context, id uint) (*models.Space, error)
	findForUpdateFn   func(ctx context.Context, id uint) (*models.Space, error)
	findAllFn         func(ctx context.Context) ([]models.Space, error)
	findBySectorFn    func(ctx context.Context, sectorID uint) ([]models.Space, error)
	updateLockStateFn func(ctx context.Context, id uint, state models.LockState) error
}

func (m *mockSpaceRepo) Create(ctx context.Context, space *models.Space) error {
	return m.createFn(ctx, space)
}
func (m *mockSpaceRepo) FindByID(ctx context.Context, id uint) (*models.Space, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockSpaceRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Space, error) {
	if m.findForUpdateFn != nil {
		return m.findForUpdateFn(ctx, id)
	}
	return m.findByIDFn(ctx, id)
}
func (m *mockSpaceRepo) FindAll(ctx context.Context) ([]models.Space, error) {
	return m.findAllFn(ctx)
}
func (m *mockSpaceRepo) FindBySector(ctx context.Context, sectorID uint) ([]models.Space, error) {
	return m.findBySectorFn(ctx, sectorID)
}
func (m *mockSpaceRepo) UpdateLockState(ctx context.Context, tx *gorm.DB, id uint, state models.LockState) error {
	return m.updateLockStateFn(ctx, id, state)
}

// spacesRepo serves a fixed set of spaces by id.
func spacesRepo(spaces ...*models.Space) *mockSpaceRepo {
	return &mockSpaceRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Space, error) {
			for _, s := range spaces {
				if s.ID == id {
					cp := *s
					return &cp, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}

// --- Mock SectorRepository ---

type mockSectorRepo struct {
	createFn   func(ctx context.Context, sector *models.Sector) error
	findByIDFn func(ctx context.Context, id uint) (*models.Sector, error)
	findAllFn  func(ctx context.Context) ([]models.Sector, error)
}

func (m *mockSectorRepo) Create(ctx context.Context, sector *models.Sector) error {
	return m.createFn(ctx, sector)
}
func (m *mockSectorRepo) FindByID(ctx context.Context, id uint) (*models.Sector, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockSectorRepo) FindAll(ctx context.Context) ([]models.Sector, error) {
	return m.findAllFn(ctx)
}

// --- In-memory ReservationRepository ---

// memReservations keeps reservations in a slice so admission runs against
// real state. Not safe for concurrent use.
type memReservations struct {
	mu     sync.Mutex
	nextID uint
	rows   []models.Reservation

	createErr  error
	updateErr  error
	listFilter *repository.ReservationFilter
	// afterFind runs after FindByID returns, standing in for a concurrent writer
	afterFind func(m *memReservations)
}

func newMemReservations(rows ...models.Reservation) *memReservations {
	m := &memReservations{}
	for _, r := range rows {
		if r.ID > m.nextID {
			m.nextID = r.ID
		}
		m.rows = append(m.rows, r)
	}
	return m
}

func (m *memReservations) Create(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	r.ID = m.nextID
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memReservations) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	if m.afterFind != nil {
		defer m.afterFind(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memReservations) setStatus(id uint, status models.ReservationStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
		}
	}
}


func (m *memReservations) FindActiveBySpace(ctx context.Context, tx *gorm.DB, spaceID uint) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, r := range m.rows {
		if r.SpaceID == spaceID && r.Status != models.StatusCancelled {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindOverlapping deliberately returns every reservation of the space, so
// the service-side filtering is what the tests observe.
func (m *memReservations) FindOverlapping(ctx context.Context, spaceID uint, from, to time.Time, excludeID uint) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.SpaceID == spaceID && r.ID != excludeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReservations) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFilter = &filter
	return append([]models.Reservation(nil), m.rows...), nil
}

func (m *memReservations) CountByStatus(ctx context.Context, status models.ReservationStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memReservations) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, from, status models.ReservationStatus, note *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.rows {
		if m.rows[i].ID == id && m.rows[i].Status == from {
			m.rows[i].Status = status
			if note != nil {
				m.rows[i].RejectionNote = note
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memReservations) UpdateDetails(ctx context.Context, tx *gorm.DB, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == r.ID {
			m.rows[i].SpaceID = r.SpaceID
			m.rows[i].StartAt = r.StartAt
			m.rows[i].EndAt = r.EndAt
			m.rows[i].Reason = r.Reason
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memReservations) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memReservations) status(id uint) models.ReservationStatus {
	r, err := m.FindByID(context.Background(), id)
	if err != nil {
		return ""
	}
	return r.Status
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  []models.User
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Mock EventPublisher ---

type publishedEvent struct {
	routingKey string
	payload    any
}

type mockPublisher struct {
	err  error
	sent []publishedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	m.sent = append(m.sent, publishedEvent{routingKey: routingKey, payload: payload})
	return m.err
}

// --- Fixtures ---

func day(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

var (
	requester = &models.User{ID: 10, Name: "Ana Souza", Role: models.RoleRequester}
	other     = &models.User{ID: 11, Name: "Bruno Lima", Role: models.RoleRequester}
	scheduler = &models.User{ID: 20, Name: "Carla Dias", Role: models.RoleScheduler}
)

func freeSpace(id uint) *models.Space {
	return &models.Space{ID: id, Name: "Auditorio", SectorID: 1, LockState: models.LockFree}
}

func lockedSpace(id uint) *models.Space {
	return &models.Space{ID: id, Name: "Lab 3", SectorID: 1, LockState: models.LockLocked}
}
