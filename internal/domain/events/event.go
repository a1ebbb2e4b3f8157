package events

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

// Event is the read model the engine and the HTTP surface see. Capacity is
// fixed by the (external) event editor; nothing in this repository mutates
// an event.
type Event struct {
	ID          string
	Title       string
	Description string
	Capacity    int
	StartAt     time.Time
	EndAt       time.Time
	OrganizerID string
	CreatedAt   time.Time
}
