package registrations

import "errors"

var (
	ErrNotFound          = errors.New("registration not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("user already registered for this event")
	ErrEventFull         = errors.New("event is full")
	ErrNotOwner          = errors.New("registration belongs to another user")
)
