package events

import (
	"time"

	"github.com/formworks/submission-service/internal/types"
)

// Publisher interface for publishing submission events
type Publisher interface {
	PublishSubmissionCreated(record *types.SubmissionRecord) error
}

// Broadcaster is the hub-facing side of event delivery
type Broadcaster interface {
	Broadcast(event *types.Event)
	ClientCount() int
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub Broadcaster
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub Broadcaster) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishSubmissionCreated announces a freshly persisted submission to
// every connected listener.
func (p *EventPublisher) PublishSubmissionCreated(record *types.SubmissionRecord) error {
	// Skip serialization entirely when nobody is listening
	if p.hub.ClientCount() == 0 {
		return nil
	}

	eventData := &types.SubmissionCreatedEvent{
		SubmissionID: record.ID,
		Name:         record.Name,
		PhotoCount:   len(record.PhotoURLs),
		VideoCount:   len(record.VideoURLs),
		CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339),
	}

	event := types.NewEvent(types.EventSubmissionCreated, eventData)
	p.hub.Broadcast(event)

	return nil
}
