package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gatherly-app/server/internal/api/problem"
	"github.com/gatherly-app/server/internal/domain/notifications"
)

// NotificationService defines the notification operations the handler needs.
type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]notifications.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]notifications.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// NotificationsHandler exposes per-user notifications over HTTP.
type NotificationsHandler struct {
	service NotificationService
	env     string
}

func NewNotificationsHandler(service NotificationService, env string) *NotificationsHandler {
	return &NotificationsHandler{service: service, env: env}
}

// MarkReadRequest is the body for POST /api/v1/notifications/{id}/read.
type MarkReadRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// NotificationResponse is the JSON shape of a notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   *string   `json:"event_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func notificationItems(notes []notifications.Notification) []NotificationResponse {
	items := make([]NotificationResponse, 0, len(notes))
	for i := range notes {
		n := &notes[i]
		items = append(items, NotificationResponse{
			ID:        n.ID,
			UserID:    n.UserID,
			EventID:   n.EventID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return items
}

// List handles GET /api/v1/users/{id}/notifications.
// An unread=true query filters to unread notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var (
		notes []notifications.Notification
		err   error
	)
	if r.URL.Query().Get("unread") == "true" {
		notes, err = h.service.ListUnread(r.Context(), userID)
	} else {
		notes, err = h.service.ListForUser(r.Context(), userID)
	}
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Listing notifications failed", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": notificationItems(notes)})
}

// UnreadCount handles GET /api/v1/users/{id}/notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Counting notifications failed", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "unread": count})
}

// MarkRead handles POST /api/v1/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := r.PathValue("id")

	var req MarkReadRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID, req.UserID); err != nil {
		switch {
		case errors.Is(err, notifications.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Notification not found", err, h.env)
		case errors.Is(err, notifications.ErrNotOwner):
			problem.Write(w, r, http.StatusForbidden, problemForbidden, "Notification belongs to another user", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Marking notification failed", err, h.env)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /api/v1/users/{id}/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	updated, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Marking notifications failed", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "updated": updated})
}
