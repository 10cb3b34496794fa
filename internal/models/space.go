package models

import "time"

type LockState string

const (
	LockFree   LockState = "FREE"
	LockLocked LockState = "LOCKED"
)

type Space struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	LockState LockState `gorm:"type:varchar(20);not null;default:'FREE'" json:"lock_state"`
	SectorID  uint      `gorm:"not null;index" json:"sector_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sector *Sector `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
}

func (s Space) IsLocked() bool {
	return s.LockState == LockLocked
}

// ToggledLockState returns the state a toggle would move the space to.
func (s Space) ToggledLockState() LockState {
	if s.IsLocked() {
		return LockFree
	}
	return LockLocked
}
