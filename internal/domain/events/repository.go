package events

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	ListUpcoming(ctx context.Context, limit int) ([]Event, error)
}
