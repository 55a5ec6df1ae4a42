package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventSubmissionCreated EventType = "submission.created"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// SubmissionCreatedEvent is emitted after a submission has been persisted
type SubmissionCreatedEvent struct {
	SubmissionID string `json:"submission_id"`
	Name         string `json:"name"`
	PhotoCount   int    `json:"photo_count"`
	VideoCount   int    `json:"video_count"`
	CreatedAt    string `json:"created_at"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
