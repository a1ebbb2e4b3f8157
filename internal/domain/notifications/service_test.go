package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gatherly-app/server/internal/domain/ids"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	mu     sync.Mutex
	users  map[string]bool
	events map[string]bool
	notes  map[string]Notification
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:  make(map[string]bool),
		events: make(map[string]bool),
		notes:  make(map[string]Notification),
	}
}

func (f *fakeRepository) addUser(id string)  { f.users[id] = true }
func (f *fakeRepository) addEvent(id string) { f.events[id] = true }

func (f *fakeRepository) addNotification(n Notification) Notification {
	if n.ID == "" {
		n.ID = ids.MustNewULID()
	}
	f.notes[n.ID] = n
	return n
}

func (f *fakeRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID], nil
}

func (f *fakeRepository) EventExists(ctx context.Context, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventID], nil
}

func (f *fakeRepository) Create(ctx context.Context, params CreateParams) (*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := Notification{
		ID:        params.ID,
		UserID:    params.UserID,
		EventID:   params.EventID,
		Message:   params.Message,
		CreatedAt: time.Now(),
	}
	f.notes[n.ID] = n
	return &n, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok {
		return ErrNotFound
	}
	n.IsRead = true
	f.notes[id] = n
	return nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var changed int64
	for id, n := range f.notes {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			f.notes[id] = n
			changed++
		}
	}
	return changed, nil
}

func (f *fakeRepository) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Notification
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListUnreadForUser(ctx context.Context, userID string) ([]Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Notification
	for _, n := range f.notes {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notes {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, n := range f.notes {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(f.notes, id)
			deleted++
		}
	}
	return deleted, nil
}

func TestNotifyCreatesNotification(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser("user-1")
	repo.addEvent("event-1")
	service := NewService(repo)

	eventID := "event-1"
	err := service.Notify(context.Background(), "user-1", "You are registered", &eventID)

	require.NoError(t, err)
	notes, err := service.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "You are registered", notes[0].Message)
	require.False(t, notes[0].IsRead)
	require.NotNil(t, notes[0].EventID)
	require.Equal(t, "event-1", *notes[0].EventID)
}

func TestNotifyWithoutEvent(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser("user-1")
	service := NewService(repo)

	err := service.Notify(context.Background(), "user-1", "Welcome", nil)

	require.NoError(t, err)
	notes, _ := service.ListForUser(context.Background(), "user-1")
	require.Len(t, notes, 1)
	require.Nil(t, notes[0].EventID)
}

func TestNotifyUnknownUser(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo)

	err := service.Notify(context.Background(), "ghost", "Hello", nil)

	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestNotifyUnknownEvent(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser("user-1")
	service := NewService(repo)

	eventID := "event-missing"
	err := service.Notify(context.Background(), "user-1", "Hello", &eventID)

	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestMarkReadOwnerOnly(t *testing.T) {
	repo := newFakeRepository()
	n := repo.addNotification(Notification{UserID: "user-1", Message: "Hello"})
	service := NewService(repo)

	err := service.MarkRead(context.Background(), n.ID, "someone-else")
	require.ErrorIs(t, err, ErrNotOwner)

	err = service.MarkRead(context.Background(), n.ID, "user-1")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	require.True(t, stored.IsRead)
}

func TestMarkReadNotFound(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo)

	err := service.MarkRead(context.Background(), ids.MustNewULID(), "user-1")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeRepository()
	repo.addNotification(Notification{UserID: "user-1", Message: "a"})
	repo.addNotification(Notification{UserID: "user-1", Message: "b"})
	repo.addNotification(Notification{UserID: "user-1", Message: "c", IsRead: true})
	repo.addNotification(Notification{UserID: "user-2", Message: "d"})
	service := NewService(repo)

	updated, err := service.MarkAllRead(context.Background(), "user-1")

	require.NoError(t, err)
	require.Equal(t, int64(2), updated)

	count, err := service.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	require.Zero(t, count)

	otherCount, err := service.UnreadCount(context.Background(), "user-2")
	require.NoError(t, err)
	require.Equal(t, int64(1), otherCount)
}

func TestListUnread(t *testing.T) {
	repo := newFakeRepository()
	repo.addNotification(Notification{UserID: "user-1", Message: "unread"})
	repo.addNotification(Notification{UserID: "user-1", Message: "read", IsRead: true})
	service := NewService(repo)

	notes, err := service.ListUnread(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "unread", notes[0].Message)
}

func TestCleanupReadHonorsRetention(t *testing.T) {
	repo := newFakeRepository()
	now := time.Now()
	oldRead := repo.addNotification(Notification{UserID: "user-1", Message: "old read", IsRead: true, CreatedAt: now.Add(-40 * 24 * time.Hour)})
	recentRead := repo.addNotification(Notification{UserID: "user-1", Message: "recent read", IsRead: true, CreatedAt: now.Add(-5 * 24 * time.Hour)})
	oldUnread := repo.addNotification(Notification{UserID: "user-1", Message: "old unread", CreatedAt: now.Add(-40 * 24 * time.Hour)})

	service := NewService(repo)
	service.now = func() time.Time { return now }

	deleted, err := service.CleanupRead(context.Background(), 30*24*time.Hour)

	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	_, err = repo.GetByID(context.Background(), oldRead.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(context.Background(), recentRead.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), oldUnread.ID)
	require.NoError(t, err)
}

func TestCleanupReadNothingToDo(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo)

	deleted, err := service.CleanupRead(context.Background(), 30*24*time.Hour)

	require.NoError(t, err)
	require.Zero(t, deleted)
}
