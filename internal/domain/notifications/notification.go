package notifications

import "time"

type Notification struct {
	ID        string
	UserID    string
	EventID   *string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
