package models

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleScheduler Role = "SCHEDULER"
	RoleRequester Role = "REQUESTER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleScheduler, RoleRequester:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(120);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(200);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'REQUESTER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanApprove reports whether the user may approve, reject, edit or delete
// reservations and manage the catalog.
func (u User) CanApprove() bool {
	return u.Role == RoleAdmin || u.Role == RoleScheduler
}
