package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gatherly-app/server/internal/api/problem"
	"github.com/gatherly-app/server/internal/domain/invitations"
)

// InvitationService defines the invitation operations the handler needs.
type InvitationService interface {
	Invite(ctx context.Context, eventID, email, invitedBy string) (*invitations.Invitation, error)
	InviteBatch(ctx context.Context, eventID string, emails []string, invitedBy string) (invitations.BatchResult, error)
	Respond(ctx context.Context, invitationID string, response invitations.Status) (*invitations.Invitation, error)
	Cancel(ctx context.Context, invitationID, cancelledBy string) error
	Resend(ctx context.Context, invitationID string) (*invitations.Invitation, error)
	Statistics(ctx context.Context, eventID string) (map[invitations.Status]int64, error)
	ListForEvent(ctx context.Context, eventID string) ([]invitations.Invitation, error)
	ListByEmail(ctx context.Context, email string) ([]invitations.Invitation, error)
	ListPendingForEvent(ctx context.Context, eventID string) ([]invitations.Invitation, error)
}

// InvitationsHandler exposes the invitation lifecycle over HTTP.
type InvitationsHandler struct {
	service InvitationService
	env     string
}

func NewInvitationsHandler(service InvitationService, env string) *InvitationsHandler {
	return &InvitationsHandler{service: service, env: env}
}

// InviteRequest is the body for POST /api/v1/events/{id}/invitations.
type InviteRequest struct {
	Email     string `json:"email" validate:"required,email"`
	InvitedBy string `json:"invited_by" validate:"omitempty"`
}

// InviteBatchRequest is the body for POST /api/v1/events/{id}/invitations/batch.
type InviteBatchRequest struct {
	Emails    []string `json:"emails" validate:"required,min=1,dive,email"`
	InvitedBy string   `json:"invited_by" validate:"omitempty"`
}

// RespondRequest is the body for POST /api/v1/invitations/{id}/respond.
type RespondRequest struct {
	Response string `json:"response" validate:"required,oneof=accepted declined"`
}

// BatchInviteResponse reports the outcome of a batch send.
type BatchInviteResponse struct {
	Sent    []InvitationResponse    `json:"sent"`
	Skipped []SkippedInviteResponse `json:"skipped"`
}

// SkippedInviteResponse is one address a batch send dropped.
type SkippedInviteResponse struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// InvitationResponse is the JSON shape of an invitation.
type InvitationResponse struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	SentAt      time.Time  `json:"sent_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	UserID      *string    `json:"user_id,omitempty"`
	InvitedBy   *string    `json:"invited_by,omitempty"`
}

func toInvitationResponse(inv *invitations.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:          inv.ID,
		EventID:     inv.EventID,
		Email:       inv.Email,
		Status:      string(inv.Status),
		SentAt:      inv.SentAt,
		RespondedAt: inv.RespondedAt,
		UserID:      inv.UserID,
		InvitedBy:   inv.InvitedBy,
	}
}

func invitationItems(invs []invitations.Invitation) []InvitationResponse {
	items := make([]InvitationResponse, 0, len(invs))
	for i := range invs {
		items = append(items, toInvitationResponse(&invs[i]))
	}
	return items
}

// Create handles POST /api/v1/events/{id}/invitations.
func (h *InvitationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	var req InviteRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	inv, err := h.service.Invite(r.Context(), eventID, req.Email, req.InvitedBy)
	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrEventNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Event not found", err, h.env)
		case errors.Is(err, invitations.ErrAlreadyInvited):
			problem.Write(w, r, http.StatusConflict, problemConflict, "An active invitation already exists for this address", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Invitation failed", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toInvitationResponse(inv))
}

// CreateBatch handles POST /api/v1/events/{id}/invitations/batch.
// Addresses with an active invitation are reported as skipped, not errors.
func (h *InvitationsHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	var req InviteBatchRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	result, err := h.service.InviteBatch(r.Context(), eventID, req.Emails, req.InvitedBy)
	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrEventNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Event not found", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Batch invitation failed", err, h.env)
		}
		return
	}

	skipped := make([]SkippedInviteResponse, 0, len(result.Skipped))
	for _, s := range result.Skipped {
		skipped = append(skipped, SkippedInviteResponse{Email: s.Email, Reason: s.Reason})
	}
	writeJSON(w, http.StatusOK, BatchInviteResponse{
		Sent:    invitationItems(result.Sent),
		Skipped: skipped,
	})
}

// Respond handles POST /api/v1/invitations/{id}/respond.
func (h *InvitationsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("id")

	var req RespondRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	inv, err := h.service.Respond(r.Context(), invitationID, invitations.Status(req.Response))
	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Invitation not found", err, h.env)
		case errors.Is(err, invitations.ErrAlreadyResponded):
			problem.Write(w, r, http.StatusConflict, problemConflict, "Invitation has already been responded to", err, h.env)
		case errors.Is(err, invitations.ErrInvalidResponse):
			problem.Write(w, r, http.StatusBadRequest, problemValidation, "Response must be accepted or declined", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Response failed", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponse(inv))
}

// Resend handles POST /api/v1/invitations/{id}/resend.
func (h *InvitationsHandler) Resend(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("id")

	inv, err := h.service.Resend(r.Context(), invitationID)
	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Invitation not found", err, h.env)
		case errors.Is(err, invitations.ErrNotPending):
			problem.Write(w, r, http.StatusConflict, problemConflict, "Only pending invitations can be resent", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Resend failed", err, h.env)
		}
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponse(inv))
}

// Delete handles DELETE /api/v1/invitations/{id}.
// The cancelled_by query parameter identifies the organizer for the audit trail.
func (h *InvitationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("id")
	cancelledBy := r.URL.Query().Get("cancelled_by")

	if err := h.service.Cancel(r.Context(), invitationID, cancelledBy); err != nil {
		switch {
		case errors.Is(err, invitations.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Invitation not found", err, h.env)
		case errors.Is(err, invitations.ErrNotPending):
			problem.Write(w, r, http.StatusConflict, problemConflict, "Only pending invitations can be cancelled", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Cancellation failed", err, h.env)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForEvent handles GET /api/v1/events/{id}/invitations.
// A status=pending query filters to pending invitations only.
func (h *InvitationsHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	var (
		invs []invitations.Invitation
		err  error
	)
	if r.URL.Query().Get("status") == string(invitations.StatusPending) {
		invs, err = h.service.ListPendingForEvent(r.Context(), eventID)
	} else {
		invs, err = h.service.ListForEvent(r.Context(), eventID)
	}
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Listing invitations failed", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": invitationItems(invs)})
}

// ListByEmail handles GET /api/v1/invitations?email=...
func (h *InvitationsHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		problem.Write(w, r, http.StatusBadRequest, problemValidation, "email query parameter is required", nil, h.env)
		return
	}

	invs, err := h.service.ListByEmail(r.Context(), email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Listing invitations failed", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": invitationItems(invs)})
}

// Statistics handles GET /api/v1/events/{id}/invitations/statistics.
func (h *InvitationsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	stats, err := h.service.Statistics(r.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrEventNotFound):
			problem.Write(w, r, http.StatusNotFound, problemNotFound, "Event not found", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problemServerError, "Statistics failed", err, h.env)
		}
		return
	}

	counts := make(map[string]int64, len(stats))
	for status, n := range stats {
		counts[string(status)] = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"event_id": eventID, "counts": counts})
}
