package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	events    map[string]Event
	lastLimit int
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ev, nil
}

func (f *fakeRepository) ListUpcoming(ctx context.Context, limit int) ([]Event, error) {
	f.lastLimit = limit
	return nil, nil
}

func TestGetByID(t *testing.T) {
	repo := &fakeRepository{events: map[string]Event{"event-1": {ID: "event-1", Title: "Garden Party"}}}
	service := NewService(repo)

	ev, err := service.GetByID(context.Background(), "event-1")

	require.NoError(t, err)
	require.Equal(t, "Garden Party", ev.Title)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &fakeRepository{events: map[string]Event{}}
	service := NewService(repo)

	_, err := service.GetByID(context.Background(), "event-missing")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestListUpcomingClampsLimit(t *testing.T) {
	repo := &fakeRepository{}
	service := NewService(repo)

	_, err := service.ListUpcoming(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 50, repo.lastLimit)

	_, err = service.ListUpcoming(context.Background(), -3)
	require.NoError(t, err)
	require.Equal(t, 50, repo.lastLimit)

	_, err = service.ListUpcoming(context.Background(), 500)
	require.NoError(t, err)
	require.Equal(t, 50, repo.lastLimit)

	_, err = service.ListUpcoming(context.Background(), 25)
	require.NoError(t, err)
	require.Equal(t, 25, repo.lastLimit)
}
