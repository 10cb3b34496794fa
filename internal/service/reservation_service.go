package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Eursukkul/room-booking/internal/events"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"gorm.io/gorm"
)

// EventPublisher delivers reservation lifecycle events. A nil publisher
// disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type UpdateReservationInput struct {
	SpaceID uint
	StartAt time.Time
	EndAt   time.Time
	Reason  string
}

type ReservationService interface {
	CreateReservation(ctx context.Context, space *models.Space, actor *models.User, start, end time.Time, reason string) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id uint, in UpdateReservationInput, actor *models.User) (*models.Reservation, error)
	SetStatus(ctx context.Context, id uint, status models.ReservationStatus, rejectionNote *string, actor *models.User) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id uint, actor *models.User) error
	FindConflicts(ctx context.Context, spaceID uint, from, to time.Time) ([]models.Reservation, error)
	FindConflictsFor(ctx context.Context, id uint) ([]models.Reservation, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error)
	CountPending(ctx context.Context) (int64, error)
}

type reservationService struct {
	tx              repository.Transactor
	spaceRepo       repository.SpaceRepository
	reservationRepo repository.ReservationRepository
	publisher       EventPublisher
}

func NewReservationService(
	tx repository.Transactor,
	spaceRepo repository.SpaceRepository,
	reservationRepo repository.ReservationRepository,
	publisher EventPublisher,
) ReservationService {
	return &reservationService{
		tx:              tx,
		spaceRepo:       spaceRepo,
		reservationRepo: reservationRepo,
		publisher:       publisher,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, space *models.Space, actor *models.User, start, end time.Time, reason string) (*models.Reservation, error) {
	if space == nil {
		return nil, ErrSpaceNotFound
	}
	if actor == nil {
		return nil, ErrUserNotFound
	}
	// 1. A locked space refuses every window
	if space.IsLocked() {
		return nil, ErrSpaceLocked
	}
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	// 2. Candidate, not yet persisted
	candidate := &models.Reservation{
		SpaceID: space.ID,
		UserID:  actor.ID,
		StartAt: start,
		EndAt:   end,
		Reason:  reason,
		Status:  models.StatusPending,
	}

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		// 3. Lock the space row: serializes admissions for this space
		locked, err := s.spaceRepo.FindByIDForUpdate(ctx, tx, space.ID)
		if err != nil {
			return notFound(err, ErrSpaceNotFound)
		}
		if locked.IsLocked() {
			return ErrSpaceLocked
		}

		// 4. Scan every live reservation of the space
		if err := s.checkConflicts(ctx, tx, candidate); err != nil {
			return err
		}

		// 5. Persist as PENDING
		return s.reservationRepo.Create(ctx, tx, candidate)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ReservationCreated, candidate, &actor.ID)
	return candidate, nil
}

// UpdateReservation edits space, window and reason. The edited reservation is
// admitted again against the target space, ignoring itself.
func (s *reservationService) UpdateReservation(ctx context.Context, id uint, in UpdateReservationInput, actor *models.User) (*models.Reservation, error) {
	if actor == nil || !actor.CanApprove() {
		return nil, ErrForbidden
	}
	if !in.StartAt.Before(in.EndAt) {
		return nil, ErrInvalidWindow
	}

	current, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}

	edited := *current
	edited.SpaceID = in.SpaceID
	edited.StartAt = in.StartAt
	edited.EndAt = in.EndAt
	edited.Reason = in.Reason
	edited.Space = nil

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		target, err := s.spaceRepo.FindByIDForUpdate(ctx, tx, in.SpaceID)
		if err != nil {
			return notFound(err, ErrSpaceNotFound)
		}
		if target.IsLocked() {
			return ErrSpaceLocked
		}
		// a cancelled reservation holds no time
		if edited.Status != models.StatusCancelled {
			if err := s.checkConflicts(ctx, tx, &edited); err != nil {
				return err
			}
		}
		return notFound(s.reservationRepo.UpdateDetails(ctx, tx, &edited), ErrReservationNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ReservationUpdated, &edited, &actor.ID)
	return &edited, nil
}

// SetStatus applies a lifecycle transition. Conflicts are not re-checked.
func (s *reservationService) SetStatus(ctx context.Context, id uint, status models.ReservationStatus, rejectionNote *string, actor *models.User) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if actor == nil {
		return nil, ErrForbidden
	}

	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}

	switch status {
	case models.StatusCancelled:
		if !actor.CanApprove() && reservation.UserID != actor.ID {
			return nil, ErrForbidden
		}
	default:
		if !actor.CanApprove() {
			return nil, ErrForbidden
		}
	}

	if !reservation.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, reservation.Status, status)
	}

	var note *string
	if status == models.StatusRejected {
		if rejectionNote == nil || strings.TrimSpace(*rejectionNote) == "" {
			return nil, ErrRejectionNoteRequired
		}
		trimmed := strings.TrimSpace(*rejectionNote)
		if utf8.RuneCountInString(trimmed) > models.MaxTextLength {
			return nil, ErrRejectionNoteTooLong
		}
		note = &trimmed
	}

	if err := s.reservationRepo.UpdateStatus(ctx, nil, id, reservation.Status, status, note); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// changed or deleted since it was read
			return nil, fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, reservation.Status)
		}
		return nil, err
	}

	reservation.Status = status
	if note != nil {
		reservation.RejectionNote = note
	}

	s.publish(ctx, events.ReservationStatusChanged, reservation, &actor.ID)
	return reservation, nil
}

func (s *reservationService) DeleteReservation(ctx context.Context, id uint, actor *models.User) error {
	if actor == nil || !actor.CanApprove() {
		return ErrForbidden
	}

	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrReservationNotFound)
	}
	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrReservationNotFound)
	}

	s.publish(ctx, events.ReservationDeleted, reservation, &actor.ID)
	return nil
}

// FindConflicts lists the non-cancelled reservations of the space overlapping
// [from, to), ordered by start.
func (s *reservationService) FindConflicts(ctx context.Context, spaceID uint, from, to time.Time) ([]models.Reservation, error) {
	if !from.Before(to) {
		return nil, ErrInvalidWindow
	}
	if _, err := s.spaceRepo.FindByID(ctx, spaceID); err != nil {
		return nil, notFound(err, ErrSpaceNotFound)
	}

	found, err := s.reservationRepo.FindOverlapping(ctx, spaceID, from, to, 0)
	if err != nil {
		return nil, err
	}

	window := models.Reservation{SpaceID: spaceID, StartAt: from, EndAt: to}
	return overlapping(window, found), nil
}

// FindConflictsFor lists what overlaps an existing reservation, excluding itself.
func (s *reservationService) FindConflictsFor(ctx context.Context, id uint) ([]models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}

	found, err := s.reservationRepo.FindOverlapping(ctx, reservation.SpaceID, reservation.StartAt, reservation.EndAt, reservation.ID)
	if err != nil {
		return nil, err
	}
	return overlapping(*reservation, found), nil
}

func (s *reservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}
	return reservation, nil
}

func (s *reservationService) ListReservations(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	return s.reservationRepo.List(ctx, filter)
}

func (s *reservationService) CountPending(ctx context.Context) (int64, error) {
	return s.reservationRepo.CountByStatus(ctx, models.StatusPending)
}

func (s *reservationService) checkConflicts(ctx context.Context, tx *gorm.DB, candidate *models.Reservation) error {
	existing, err := s.reservationRepo.FindActiveBySpace(ctx, tx, candidate.SpaceID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if other.Status == models.StatusCancelled {
			continue
		}
		if candidate.Overlaps(other) {
			return fmt.Errorf("%w: reservation %d (%s)", ErrTimeConflict, other.ID, other.Status)
		}
	}
	return nil
}

func (s *reservationService) publish(ctx context.Context, routingKey string, r *models.Reservation, actorID *uint) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, events.NewReservationEvent(routingKey, r, actorID)); err != nil {
		log.Printf("[Reservation] publish %s for reservation %d failed: %v", routingKey, r.ID, err)
	}
}

// overlapping keeps the non-cancelled entries of found that overlap target,
// sorted by start then id.
func overlapping(target models.Reservation, found []models.Reservation) []models.Reservation {
	out := make([]models.Reservation, 0, len(found))
	for _, r := range found {
		if r.ID != 0 && r.ID == target.ID {
			continue
		}
		if r.Status == models.StatusCancelled || !target.Overlaps(r) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}
