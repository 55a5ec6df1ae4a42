package events

import (
	"testing"
	"time"

	"github.com/formworks/submission-service/internal/types"
)

type fakeBroadcaster struct {
	clients int
	events  []*types.Event
}

func (f *fakeBroadcaster) Broadcast(event *types.Event) {
	f.events = append(f.events, event)
}

func (f *fakeBroadcaster) ClientCount() int {
	return f.clients
}

func TestPublishSubmissionCreated(t *testing.T) {
	hub := &fakeBroadcaster{clients: 2}
	publisher := NewEventPublisher(hub)

	record := &types.SubmissionRecord{
		ID:        "42",
		Name:      "Ada",
		PhotoURLs: []string{"u1", "u2"},
		VideoURLs: []string{"u3"},
		CreatedAt: time.Now(),
	}

	if err := publisher.PublishSubmissionCreated(record); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(hub.events) != 1 {
		t.Fatalf("Expected one broadcast event, got %d", len(hub.events))
	}

	event := hub.events[0]
	if event.Type != types.EventSubmissionCreated {
		t.Fatalf("Unexpected event type: %s", event.Type)
	}

	data, ok := event.Data.(*types.SubmissionCreatedEvent)
	if !ok {
		t.Fatalf("Unexpected event data type: %T", event.Data)
	}
	if data.SubmissionID != "42" || data.PhotoCount != 2 || data.VideoCount != 1 {
		t.Fatalf("Unexpected event data: %+v", data)
	}
}

func TestPublishSubmissionCreated_NoListeners(t *testing.T) {
	hub := &fakeBroadcaster{clients: 0}
	publisher := NewEventPublisher(hub)

	if err := publisher.PublishSubmissionCreated(&types.SubmissionRecord{ID: "1"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(hub.events) != 0 {
		t.Fatalf("Expected no broadcasts without listeners, got %d", len(hub.events))
	}
}
