package models

import (
	"encoding/json"
	"time"
)

// AuditEntry is one reservation lifecycle event as received from the broker.
type AuditEntry struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	MessageID     string            `gorm:"type:varchar(64);not null;uniqueIndex" json:"message_id"`
	RoutingKey    string            `gorm:"type:varchar(64);not null" json:"routing_key"`
	ReservationID uint              `gorm:"not null;index" json:"reservation_id"`
	SpaceID       uint              `json:"space_id"`
	ActorID       *uint             `json:"actor_id,omitempty"`
	Status        ReservationStatus `gorm:"type:varchar(20)" json:"status"`
	OccurredAt    time.Time         `gorm:"not null" json:"occurred_at"`
	Payload       json.RawMessage   `gorm:"type:jsonb" json:"payload"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "reservation_audits"
}
