package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gatherly-app/server/internal/api/problem"
	"github.com/gatherly-app/server/internal/domain/events"
)

// EventService defines the event read operations the handler needs.
type EventService interface {
	GetByID(ctx context.Context, id string) (*events.Event, error)
	ListUpcoming(ctx context.Context, limit int) ([]events.Event, error)
}

// EventsHandler exposes the event read model over HTTP.
type EventsHandler struct {
	service EventService
	env     string
}

func NewEventsHandler(service EventService, env string) *EventsHandler {
	return &EventsHandler{service: service, env: env}
}

// EventResponse is the JSON shape of an event.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	OrganizerID string    `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEventResponse(ev *events.Event) EventResponse {
	return EventResponse{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Capacity:    ev.Capacity,
		StartAt:     ev.StartAt,
		EndAt:       ev.EndAt,
		OrganizerID: ev.OrganizerID,
		CreatedAt:   ev.CreatedAt,
	}
}

// List handles GET /api/v1/events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, problemValidation, "limit must be an integer", err, h.env)
			return
		}
		limit = parsed
	}

	evs, err := h.service.ListUpcoming(r.Context(), limit)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Listing events failed", err, h.env)
		return
	}

	items := make([]EventResponse, 0, len(evs))
	for i := range evs {
		items = append(items, toEventResponse(&evs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Get handles GET /api/v1/events/{id}.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ev, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Event not found", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Fetching event failed", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(ev))
}
