package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrSpaceNotFound       = errors.New("space not found")
	ErrSectorNotFound      = errors.New("sector not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrSpaceLocked   = errors.New("space is locked and cannot be booked")
	ErrTimeConflict  = errors.New("time conflicts with another reservation")
	ErrInvalidWindow = errors.New("start must be before end")

	ErrInvalidStatus         = errors.New("unknown reservation status")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrRejectionNoteRequired = errors.New("a rejection note is required")
	ErrRejectionNoteTooLong  = errors.New("rejection note exceeds 300 characters")
	ErrForbidden             = errors.New("not allowed for this user")

	ErrNameRequired       = errors.New("name is required")
	ErrInvalidRole        = errors.New("unknown user role")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// notFound maps gorm's missing-row error to the given domain error.
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
