package notifications

import "errors"

var (
	ErrNotFound      = errors.New("notification not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrEventNotFound = errors.New("event not found")
	ErrNotOwner      = errors.New("notification belongs to another user")
)
