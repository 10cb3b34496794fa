package consumer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Eursukkul/room-booking/internal/events"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
)

const writeTimeout = 5 * time.Second

// AuditConsumer records every reservation lifecycle event into the audit table.
type AuditConsumer struct {
	repo repository.AuditRepository
}

func NewAuditConsumer(repo repository.AuditRepository) *AuditConsumer {
	return &AuditConsumer{repo: repo}
}

// Start consumes msgs in the background until the channel closes. The
// returned channel is closed once the last message was handled.
func (ac *AuditConsumer) Start(msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			ac.handleMessage(msg)
		}
		log.Println("[AuditConsumer] channel closed, stopping consumer")
	}()
	return done
}

func (ac *AuditConsumer) handleMessage(msg amqp.Delivery) {
	var event events.ReservationEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.ReservationID == 0 {
		log.Printf("[AuditConsumer] dropping malformed message %q: %v", msg.MessageId, err)
		msg.Nack(false, false)
		return
	}

	entry := toAuditEntry(msg, event)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := ac.repo.Record(ctx, entry); err != nil {
		log.Printf("[AuditConsumer] failed to record %s for reservation %d: %v", entry.RoutingKey, event.ReservationID, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[AuditConsumer] recorded %s for reservation %d", entry.RoutingKey, event.ReservationID)
	msg.Ack(false)
}

func toAuditEntry(msg amqp.Delivery, event events.ReservationEvent) *models.AuditEntry {
	// redeliveries of a message without an id still map to the same entry
	messageID := msg.MessageId
	if messageID == "" {
		messageID = uuid.NewSHA1(uuid.NameSpaceOID, msg.Body).String()
	}

	routingKey := msg.RoutingKey
	if routingKey == "" {
		routingKey = event.Type
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = msg.Timestamp
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return &models.AuditEntry{
		MessageID:     messageID,
		RoutingKey:    routingKey,
		ReservationID: event.ReservationID,
		SpaceID:       event.SpaceID,
		ActorID:       event.ActorID,
		Status:        event.Status,
		OccurredAt:    occurredAt,
		Payload:       json.RawMessage(msg.Body),
	}
}
