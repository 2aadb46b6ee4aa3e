package services

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Lifecycle event types.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// EventPublisher delivers lifecycle events to an external broker.
type EventPublisher interface {
	PublishEvent(eventType string, payload any) error
}

// Event is the payload published for every entity mutation.
type Event struct {
	Type       string    `json:"type"`
	ID         uint      `json:"id"`
	UserID     uint      `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// publishEvent sends the event when a publisher is configured. Failures are
// logged; the mutation that triggered the event has already been committed.
func publishEvent(pub EventPublisher, log logrus.FieldLogger, event Event) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(event.Type, event); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"event": event.Type,
			"id":    event.ID,
		}).Warn("failed to publish lifecycle event")
		return
	}
	log.WithFields(logrus.Fields{"event": event.Type, "id": event.ID}).Debug("published lifecycle event")
}
