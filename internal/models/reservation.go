package models

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusApproved  ReservationStatus = "APPROVED"
	StatusRejected  ReservationStatus = "REJECTED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a reservation in status s may move to next.
// PENDING may be approved or rejected; anything not yet cancelled may be cancelled.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch next {
	case StatusApproved, StatusRejected:
		return s == StatusPending
	case StatusCancelled:
		return s != StatusCancelled
	}
	return false
}

// MaxTextLength bounds the reason and rejection note, in characters.
const MaxTextLength = 300

type Reservation struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	SpaceID       uint              `gorm:"not null;index:idx_reservation_space_status" json:"space_id"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	StartAt       time.Time         `gorm:"not null;index" json:"start_at"`
	EndAt         time.Time         `gorm:"not null" json:"end_at"`
	Reason        string            `gorm:"type:varchar(300)" json:"reason"`
	RejectionNote *string           `gorm:"type:varchar(300)" json:"rejection_note,omitempty"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_reservation_space_status" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Space *Space `gorm:"foreignKey:SpaceID;constraint:OnDelete:CASCADE" json:"space,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Overlaps reports whether r and other claim the same space for at least one
// shared instant. Intervals are half-open, so back-to-back reservations do not
// overlap.
func (r Reservation) Overlaps(other Reservation) bool {
	return r.SpaceID == other.SpaceID && IntervalsOverlap(r.StartAt, r.EndAt, other.StartAt, other.EndAt)
}

// IntervalsOverlap compares [aStart, aEnd) against [bStart, bEnd).
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
