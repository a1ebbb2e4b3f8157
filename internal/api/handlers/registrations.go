package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gatherly-app/server/internal/api/problem"
	"github.com/gatherly-app/server/internal/domain/registrations"
)

// RegistrationService defines the registration operations the handler needs.
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string) (*registrations.Registration, error)
	Cancel(ctx context.Context, registrationID, requestingUserID string) error
	Unregister(ctx context.Context, userID, eventID string) error
	ListForEvent(ctx context.Context, eventID string) ([]registrations.Registration, error)
	ListForUser(ctx context.Context, userID string) ([]registrations.Registration, error)
	AvailableSpots(ctx context.Context, eventID string) (int, error)
}

// RegistrationsHandler exposes the registration lifecycle over HTTP.
type RegistrationsHandler struct {
	service RegistrationService
	env     string
}

func NewRegistrationsHandler(service RegistrationService, env string) *RegistrationsHandler {
	return &RegistrationsHandler{service: service, env: env}
}

// RegisterRequest is the body for POST /api/v1/events/{id}/registrations.
type RegisterRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// CancelRegistrationRequest is the body for POST /api/v1/registrations/{id}/cancel.
type CancelRegistrationRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// RegistrationResponse is the JSON shape of a registration.
type RegistrationResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	EventID      string    `json:"event_id"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toRegistrationResponse(reg *registrations.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           reg.ID,
		UserID:       reg.UserID,
		EventID:      reg.EventID,
		Status:       string(reg.Status),
		RegisteredAt: reg.RegisteredAt,
	}
}

// Create handles POST /api/v1/events/{id}/registrations.
func (h *RegistrationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	var req RegisterRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	reg, err := h.service.Register(r.Context(), req.UserID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, registrations.ErrUserNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "User not found", err, h.env)
		case errors.Is(err, registrations.ErrEventNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Event not found", err, h.env)
		case errors.Is(err, registrations.ErrAlreadyRegistered):
			problem.Write(w, r, http.StatusConflict, problemConflict, "Already registered for this event", err, h.env)
		case errors.Is(err, registrations.ErrEventFull):
			problem.Write(w, r, http.StatusConflict, problemConflict, "Event is at capacity", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Registration failed", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toRegistrationResponse(reg))
}

// Cancel handles POST /api/v1/registrations/{id}/cancel.
func (h *RegistrationsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("id")

	var req CancelRegistrationRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	if err := h.service.Cancel(r.Context(), registrationID, req.UserID); err != nil {
		switch {
		case errors.Is(err, registrations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Registration not found", err, h.env)
		case errors.Is(err, registrations.ErrNotOwner):
			problem.Write(w, r, http.StatusForbidden, problemForbidden, "Registration belongs to another user", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Cancellation failed", err, h.env)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/events/{id}/registrations/{userID}.
// Unlike cancel, this removes the registration record entirely.
func (h *RegistrationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	userID := r.PathValue("userID")

	if err := h.service.Unregister(r.Context(), userID, eventID); err != nil {
		switch {
		case errors.Is(err, registrations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Registration not found", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Unregister failed", err, h.env)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForEvent handles GET /api/v1/events/{id}/registrations.
func (h *RegistrationsHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	regs, err := h.service.ListForEvent(r.Context(), eventID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Listing registrations failed", err, h.env)
		return
	}

	items := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		items = append(items, toRegistrationResponse(&regs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ListForUser handles GET /api/v1/users/{id}/registrations.
func (h *RegistrationsHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	regs, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Listing registrations failed", err, h.env)
		return
	}

	items := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		items = append(items, toRegistrationResponse(&regs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Availability handles GET /api/v1/events/{id}/availability.
func (h *RegistrationsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	spots, err := h.service.AvailableSpots(r.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, registrations.ErrEventNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Event not found", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Availability check failed", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"event_id": eventID, "available_spots": spots})
}
