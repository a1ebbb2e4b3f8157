package invitations

import "errors"

var (
	ErrNotFound         = errors.New("invitation not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrAlreadyInvited   = errors.New("invitation already sent to this email for this event")
	ErrAlreadyResponded = errors.New("invitation has already been responded to")
	ErrNotPending       = errors.New("invitation is not pending")
	ErrInvalidResponse  = errors.New("response must be accepted or declined")
)
