// Package events defines the reservation lifecycle messages published to the
// reservations exchange. Changes to ReservationEvent should be additive.
package events

import (
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
)

const (
	ReservationCreated       = "reservation.created"
	ReservationUpdated       = "reservation.updated"
	ReservationStatusChanged = "reservation.status_changed"
	ReservationDeleted       = "reservation.deleted"
)

type ReservationEvent struct {
	Type          string                   `json:"type"`
	ReservationID uint                     `json:"reservation_id"`
	SpaceID       uint                     `json:"space_id"`
	UserID        uint                     `json:"user_id"`
	ActorID       *uint                    `json:"actor_id,omitempty"`
	Status        models.ReservationStatus `json:"status"`
	StartAt       time.Time                `json:"start_at"`
	EndAt         time.Time                `json:"end_at"`
	RejectionNote *string                  `json:"rejection_note,omitempty"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r *models.Reservation, actorID *uint) ReservationEvent {
	return ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		SpaceID:       r.SpaceID,
		UserID:        r.UserID,
		ActorID:       actorID,
		Status:        r.Status,
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
		RejectionNote: r.RejectionNote,
		OccurredAt:    time.Now().UTC(),
	}
}
