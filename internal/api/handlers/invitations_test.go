package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatherly-app/server/internal/domain/invitations"
)

// stubInvitationService satisfies InvitationService with canned results.
type stubInvitationService struct {
	inviteResult  *invitations.Invitation
	inviteErr     error
	batchResult   invitations.BatchResult
	batchErr      error
	respondResult *invitations.Invitation
	respondErr    error
	cancelErr     error
	resendResult  *invitations.Invitation
	resendErr     error
	stats         map[invitations.Status]int64
	statsErr      error
	listResult    []invitations.Invitation
	listErr       error
}

func (s *stubInvitationService) Invite(ctx context.Context, eventID, email, invitedBy string) (*invitations.Invitation, error) {
	return s.inviteResult, s.inviteErr
}

func (s *stubInvitationService) InviteBatch(ctx context.Context, eventID string, emails []string, invitedBy string) (invitations.BatchResult, error) {
	return s.batchResult, s.batchErr
}

func (s *stubInvitationService) Respond(ctx context.Context, invitationID string, response invitations.Status) (*invitations.Invitation, error) {
	return s.respondResult, s.respondErr
}

func (s *stubInvitationService) Cancel(ctx context.Context, invitationID, cancelledBy string) error {
	return s.cancelErr
}

func (s *stubInvitationService) Resend(ctx context.Context, invitationID string) (*invitations.Invitation, error) {
	return s.resendResult, s.resendErr
}

func (s *stubInvitationService) Statistics(ctx context.Context, eventID string) (map[invitations.Status]int64, error) {
	return s.stats, s.statsErr
}

func (s *stubInvitationService) ListForEvent(ctx context.Context, eventID string) ([]invitations.Invitation, error) {
	return s.listResult, s.listErr
}

func (s *stubInvitationService) ListByEmail(ctx context.Context, email string) ([]invitations.Invitation, error) {
	return s.listResult, s.listErr
}

func (s *stubInvitationService) ListPendingForEvent(ctx context.Context, eventID string) ([]invitations.Invitation, error) {
	return s.listResult, s.listErr
}

func TestCreateInvitation(t *testing.T) {
	service := &stubInvitationService{
		inviteResult: &invitations.Invitation{
			ID:      "01HQZX3Y4K6F7G8H9J0K1M2N3P",
			EventID: "event-1",
			Email:   "guest@example.com",
			Status:  invitations.StatusPending,
		},
	}
	handler := NewInvitationsHandler(service, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/events/event-1/invitations", strings.NewReader(`{"email":"guest@example.com"}`))
	r.SetPathValue("id", "event-1")
	handler.Create(w, r)

	require.Equal(t, 201, w.Code)

	var body InvitationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "pending", body.Status)
	require.Equal(t, "guest@example.com", body.Email)
}

func TestCreateInvitationBadEmail(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/events/event-1/invitations", strings.NewReader(`{"email":"not-an-email"}`))
	r.SetPathValue("id", "event-1")
	handler.Create(w, r)

	require.Equal(t, 400, w.Code)
}

func TestCreateInvitationConflict(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{inviteErr: invitations.ErrAlreadyInvited}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/events/event-1/invitations", strings.NewReader(`{"email":"guest@example.com"}`))
	r.SetPathValue("id", "event-1")
	handler.Create(w, r)

	require.Equal(t, 409, w.Code)
}

func TestCreateBatch(t *testing.T) {
	service := &stubInvitationService{
		batchResult: invitations.BatchResult{
			Sent: []invitations.Invitation{
				{ID: "01HQZX3Y4K6F7G8H9J0K1M2N3P", EventID: "event-1", Email: "a@example.com", Status: invitations.StatusPending},
			},
			Skipped: []invitations.SkippedInvite{
				{Email: "b@example.com", Reason: "already invited"},
			},
		},
	}
	handler := NewInvitationsHandler(service, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/events/event-1/invitations/batch",
		strings.NewReader(`{"emails":["a@example.com","b@example.com"]}`))
	r.SetPathValue("id", "event-1")
	handler.CreateBatch(w, r)

	require.Equal(t, 200, w.Code)

	var body BatchInviteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Sent, 1)
	require.Len(t, body.Skipped, 1)
	require.Equal(t, "b@example.com", body.Skipped[0].Email)
}

func TestCreateBatchRejectsEmptyList(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/events/event-1/invitations/batch", strings.NewReader(`{"emails":[]}`))
	r.SetPathValue("id", "event-1")
	handler.CreateBatch(w, r)

	require.Equal(t, 400, w.Code)
}

func TestRespondValidation(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/invitations/inv-1/respond", strings.NewReader(`{"response":"maybe"}`))
	r.SetPathValue("id", "inv-1")
	handler.Respond(w, r)

	require.Equal(t, 400, w.Code)
}

func TestRespondConflictAfterResponse(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{respondErr: invitations.ErrAlreadyResponded}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/invitations/inv-1/respond", strings.NewReader(`{"response":"accepted"}`))
	r.SetPathValue("id", "inv-1")
	handler.Respond(w, r)

	require.Equal(t, 409, w.Code)
}

func TestRespondAccepted(t *testing.T) {
	service := &stubInvitationService{
		respondResult: &invitations.Invitation{
			ID:      "01HQZX3Y4K6F7G8H9J0K1M2N3P",
			EventID: "event-1",
			Email:   "guest@example.com",
			Status:  invitations.StatusAccepted,
		},
	}
	handler := NewInvitationsHandler(service, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/invitations/inv-1/respond", strings.NewReader(`{"response":"accepted"}`))
	r.SetPathValue("id", "inv-1")
	handler.Respond(w, r)

	require.Equal(t, 200, w.Code)

	var body InvitationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "accepted", body.Status)
}

func TestResendNotPending(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{resendErr: invitations.ErrNotPending}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/invitations/inv-1/resend", nil)
	r.SetPathValue("id", "inv-1")
	handler.Resend(w, r)

	require.Equal(t, 409, w.Code)
}

func TestDeleteInvitationNoContent(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("DELETE", "/api/v1/invitations/inv-1?cancelled_by=organizer-1", nil)
	r.SetPathValue("id", "inv-1")
	handler.Delete(w, r)

	require.Equal(t, 204, w.Code)
}

func TestListByEmailRequiresQuery(t *testing.T) {
	handler := NewInvitationsHandler(&stubInvitationService{}, "test")

	w := httptest.NewRecorder()
	handler.ListByEmail(w, httptest.NewRequest("GET", "/api/v1/invitations", nil))

	require.Equal(t, 400, w.Code)
}

func TestStatistics(t *testing.T) {
	service := &stubInvitationService{
		stats: map[invitations.Status]int64{
			invitations.StatusPending:  2,
			invitations.StatusAccepted: 1,
			invitations.StatusDeclined: 0,
			invitations.StatusExpired:  0,
		},
	}
	handler := NewInvitationsHandler(service, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/events/event-1/invitations/statistics", nil)
	r.SetPathValue("id", "event-1")
	handler.Statistics(w, r)

	require.Equal(t, 200, w.Code)

	var body struct {
		EventID string           `json:"event_id"`
		Counts  map[string]int64 `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "event-1", body.EventID)
	require.Equal(t, int64(2), body.Counts["pending"])
	require.Contains(t, body.Counts, "expired")
}
