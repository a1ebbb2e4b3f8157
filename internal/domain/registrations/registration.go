package registrations

import "time"

// Status is the lifecycle state of a registration. A confirmed registration
// counts against event capacity; a cancelled one is terminal and kept for
// audit. There is no transition back to confirmed.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

type Registration struct {
	ID           string
	UserID       string
	EventID      string
	Status       Status
	RegisteredAt time.Time
}

// EventInfo is the read-only slice of an event the lifecycle needs:
// capacity, organizer and time window. The engine never writes these back.
type EventInfo struct {
	ID          string
	Title       string
	Capacity    int
	OrganizerID string
	StartAt     time.Time
	EndAt       time.Time
}
