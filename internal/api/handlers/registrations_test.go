package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatherly-app/server/internal/domain/registrations"
)

// stubRegistrationService satisfies RegistrationService with canned results.
type stubRegistrationService struct {
	registerResult *registrations.Registration
	registerErr    error
	cancelErr      error
	unregisterErr  error
	listResult     []registrations.Registration
	listErr        error
	spots          int
	spotsErr       error
}

func (s *stubRegistrationService) Register(ctx context.Context, userID, eventID string) (*registrations.Registration, error) {
	return s.registerResult, s.registerErr
}

func (s *stubRegistrationService) Cancel(ctx context.Context, registrationID, requestingUserID string) error {
	return s.cancelErr
}

func (s *stubRegistrationService) Unregister(ctx context.Context, userID, eventID string) error {
	return s.unregisterErr
}

func (s *stubRegistrationService) ListForEvent(ctx context.Context, eventID string) ([]registrations.Registration, error) {
	return s.listResult, s.listErr
}

func (s *stubRegistrationService) ListForUser(ctx context.Context, userID string) ([]registrations.Registration, error) {
	return s.listResult, s.listErr
}

func (s *stubRegistrationService) AvailableSpots(ctx context.Context, eventID string) (int, error) {
	return s.spots, s.spotsErr
}

func TestCreateRegistration(t *testing.T) {
	service := &stubRegistrationService{
		registerResult: &registrations.Registration{
			ID:      "01HQZX3Y4K6F7G8H9J0K1M2N3P",
			UserID:  "user-1",
			EventID: "event-1",
			Status:  registrations.StatusConfirmed,
		},
	}
	handler := NewRegistrationsHandler(service, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/events/event-1/registrations", strings.NewReader(`{"user_id":"user-1"}`))
	r.SetPathValue("id", "event-1")
	handler.Create(w, r)

	require.Equal(t, 201, w.Code)

	var body RegistrationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "user-1", body.UserID)
	require.Equal(t, "confirmed", body.Status)
}

func TestCreateRegistrationMissingUserID(t *testing.T) {
	handler := NewRegistrationsHandler(&stubRegistrationService{}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/events/event-1/registrations", strings.NewReader(`{}`))
	r.SetPathValue("id", "event-1")
	handler.Create(w, r)

	require.Equal(t, 400, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestCreateRegistrationErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"user not found", registrations.ErrUserNotFound, 404},
		{"event not found", registrations.ErrEventNotFound, 404},
		{"duplicate", registrations.ErrAlreadyRegistered, 409},
		{"full", registrations.ErrEventFull, 409},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRegistrationsHandler(&stubRegistrationService{registerErr: tc.err}, "test")

			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/api/v1/events/event-1/registrations", strings.NewReader(`{"user_id":"user-1"}`))
			r.SetPathValue("id", "event-1")
			handler.Create(w, r)

			require.Equal(t, tc.code, w.Code)
		})
	}
}

func TestCancelRegistrationForbidden(t *testing.T) {
	handler := NewRegistrationsHandler(&stubRegistrationService{cancelErr: registrations.ErrNotOwner}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/registrations/reg-1/cancel", strings.NewReader(`{"user_id":"intruder"}`))
	r.SetPathValue("id", "reg-1")
	handler.Cancel(w, r)

	require.Equal(t, 403, w.Code)
}

func TestCancelRegistrationNoContent(t *testing.T) {
	handler := NewRegistrationsHandler(&stubRegistrationService{}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/registrations/reg-1/cancel", strings.NewReader(`{"user_id":"user-1"}`))
	r.SetPathValue("id", "reg-1")
	handler.Cancel(w, r)

	require.Equal(t, 204, w.Code)
}

func TestDeleteRegistrationNotFound(t *testing.T) {
	handler := NewRegistrationsHandler(&stubRegistrationService{unregisterErr: registrations.ErrNotFound}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("DELETE", "/api/v1/events/event-1/registrations/user-1", nil)
	r.SetPathValue("id", "event-1")
	r.SetPathValue("userID", "user-1")
	handler.Delete(w, r)

	require.Equal(t, 404, w.Code)
}

func TestAvailability(t *testing.T) {
	handler := NewRegistrationsHandler(&stubRegistrationService{spots: 7}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/events/event-1/availability", nil)
	r.SetPathValue("id", "event-1")
	handler.Availability(w, r)

	require.Equal(t, 200, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, float64(7), body["available_spots"])
}

func TestListForEventEmpty(t *testing.T) {
	handler := NewRegistrationsHandler(&stubRegistrationService{}, "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/events/event-1/registrations", nil)
	r.SetPathValue("id", "event-1")
	handler.ListForEvent(w, r)

	require.Equal(t, 200, w.Code)
	require.JSONEq(t, `{"items":[]}`, w.Body.String())
}
