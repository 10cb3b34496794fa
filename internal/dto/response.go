package dto

import (
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type SectorResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

type SpaceResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	LockState models.LockState `json:"lock_state"`
	SectorID  uint             `json:"sector_id"`
	Sector    string           `json:"sector,omitempty"`
}

type ReservationResponse struct {
	ID            uint                     `json:"id"`
	SpaceID       uint                     `json:"space_id"`
	Space         string                   `json:"space,omitempty"`
	Sector        string                   `json:"sector,omitempty"`
	UserID        uint                     `json:"user_id"`
	User          string                   `json:"user,omitempty"`
	StartAt       time.Time                `json:"start_at"`
	EndAt         time.Time                `json:"end_at"`
	Reason        string                   `json:"reason"`
	RejectionNote *string                  `json:"rejection_note,omitempty"`
	Status        models.ReservationStatus `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
}

// ConflictsResponse splits overlapping reservations by status, the shape the
// booking form uses to warn before submitting.
type ConflictsResponse struct {
	Pending  []ReservationResponse `json:"pending"`
	Approved []ReservationResponse `json:"approved"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type DashboardResponse struct {
	Date         string                `json:"date"`
	Reservations []ReservationResponse `json:"reservations"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func ToSectorResponse(s *models.Sector) SectorResponse {
	return SectorResponse{ID: s.ID, Name: s.Name, Acronym: s.Acronym()}
}

func ToSpaceResponse(s *models.Space) SpaceResponse {
	resp := SpaceResponse{ID: s.ID, Name: s.Name, LockState: s.LockState, SectorID: s.SectorID}
	if s.Sector != nil {
		resp.Sector = s.Sector.Name
	}
	return resp
}

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:            r.ID,
		SpaceID:       r.SpaceID,
		UserID:        r.UserID,
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
		Reason:        r.Reason,
		RejectionNote: r.RejectionNote,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	}
	if r.Space != nil {
		resp.Space = r.Space.Name
		if r.Space.Sector != nil {
			resp.Sector = r.Space.Sector.Name
		}
	}
	if r.User != nil {
		resp.User = r.User.Name
	}
	return resp
}

func ToReservationResponses(rs []models.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(rs))
	for i := range rs {
		resp[i] = ToReservationResponse(&rs[i])
	}
	return resp
}

// PartitionConflicts keeps the input order within each list. Statuses other
// than PENDING and APPROVED are dropped.
func PartitionConflicts(rs []models.Reservation) ConflictsResponse {
	resp := ConflictsResponse{
		Pending:  []ReservationResponse{},
		Approved: []ReservationResponse{},
	}
	for i := range rs {
		switch rs[i].Status {
		case models.StatusPending:
			resp.Pending = append(resp.Pending, ToReservationResponse(&rs[i]))
		case models.StatusApproved:
			resp.Approved = append(resp.Approved, ToReservationResponse(&rs[i]))
		}
	}
	return resp
}
