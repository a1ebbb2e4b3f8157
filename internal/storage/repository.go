package storage

import (
	"github.com/gatherly-app/server/internal/domain/events"
	"github.com/gatherly-app/server/internal/domain/invitations"
	"github.com/gatherly-app/server/internal/domain/notifications"
	"github.com/gatherly-app/server/internal/domain/registrations"
)

// Repository groups data access by domain.
type Repository interface {
	Events() events.Repository
	Registrations() registrations.Repository
	Invitations() invitations.Repository
	Notifications() notifications.Repository
}
