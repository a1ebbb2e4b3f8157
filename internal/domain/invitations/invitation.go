package invitations

import "time"

// Status is the lifecycle state of an invitation. Pending is the only
// non-terminal state: it moves exactly once, to accepted or declined via an
// explicit response, or to expired via the daily sweep. A declined
// invitation does not block re-inviting the same email; every other status
// does.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusExpired:
		return true
	default:
		return false
	}
}

// Statuses returns every invitation status, in reporting order.
func Statuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusDeclined, StatusExpired}
}

type Invitation struct {
	ID          string
	EventID     string
	Email       string
	Status      Status
	SentAt      time.Time
	RespondedAt *time.Time

	// UserID is set when the invitee email matches an existing account at
	// send time. Acceptance only auto-registers bound invitations.
	UserID    *string
	InvitedBy *string
}

// EventInfo is the read-only event slice the invitation lifecycle consults.
type EventInfo struct {
	ID          string
	Title       string
	Capacity    int
	OrganizerID string
	StartAt     time.Time
	EndAt       time.Time
}

// SkippedInvite records one email a batch send dropped, and why.
type SkippedInvite struct {
	Email  string
	Reason string
}

// BatchResult is the structured outcome of a best-effort batch send.
type BatchResult struct {
	Sent    []Invitation
	Skipped []SkippedInvite
}
