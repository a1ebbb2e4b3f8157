package api

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/gatherly-app/server/internal/api/handlers"
	"github.com/gatherly-app/server/internal/api/middleware"
	"github.com/gatherly-app/server/internal/config"
	"github.com/gatherly-app/server/internal/domain/events"
	"github.com/gatherly-app/server/internal/domain/invitations"
	"github.com/gatherly-app/server/internal/domain/notifications"
	"github.com/gatherly-app/server/internal/domain/registrations"
	"github.com/gatherly-app/server/internal/email"
	"github.com/gatherly-app/server/internal/jobs"
	"github.com/gatherly-app/server/internal/metrics"
	"github.com/gatherly-app/server/internal/storage/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
)

// Router bundles the HTTP handler with the river client so the serve
// command can manage the worker lifecycle.
type Router struct {
	Handler     http.Handler
	RiverClient *river.Client[pgx.Tx]
}

// NewRouter wires repositories, domain services, background workers, and
// handlers into the HTTP surface. The pool is owned by the caller.
func NewRouter(cfg config.Config, logger zerolog.Logger, jobLogger *slog.Logger, pool *pgxpool.Pool, version string) (*Router, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	mailer, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return nil, err
	}

	notificationService := notifications.NewService(repo.Notifications())
	registrationService := registrations.NewService(repo.Registrations(), notificationService)
	invitationService := invitations.NewService(repo.Invitations(), registrationService, notificationService, mailer)
	eventService := events.NewService(repo.Events())

	workers, err := jobs.NewWorkers(jobs.WorkerDeps{
		Invitations:   invitationService,
		Notifications: notificationService,
		ExpireAfter:   cfg.Invitations.ExpireAfter,
		RetainRead:    cfg.Notifications.RetainRead,
		Logger:        jobLogger,
	})
	if err != nil {
		return nil, err
	}
	riverClient, err := jobs.NewClient(pool, workers, jobLogger, jobs.NewPeriodicJobs())
	if err != nil {
		return nil, err
	}

	registrationsHandler := handlers.NewRegistrationsHandler(registrationService, cfg.Environment)
	invitationsHandler := handlers.NewInvitationsHandler(invitationService, cfg.Environment)
	notificationsHandler := handlers.NewNotificationsHandler(notificationService, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventService, cfg.Environment)
	healthChecker := handlers.NewHealthChecker(pool, riverClient, version)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", healthChecker.Readyz())
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.List),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.Get),
	}))
	mux.Handle("/api/v1/events/{id}/availability", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(registrationsHandler.Availability),
	}))

	mux.Handle("/api/v1/events/{id}/registrations", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(registrationsHandler.ListForEvent),
		http.MethodPost: http.HandlerFunc(registrationsHandler.Create),
	}))
	mux.Handle("/api/v1/events/{id}/registrations/{userID}", methodMux(map[string]http.Handler{
		http.MethodDelete: http.HandlerFunc(registrationsHandler.Delete),
	}))
	mux.Handle("/api/v1/registrations/{id}/cancel", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(registrationsHandler.Cancel),
	}))
	mux.Handle("/api/v1/users/{id}/registrations", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(registrationsHandler.ListForUser),
	}))

	mux.Handle("/api/v1/events/{id}/invitations", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(invitationsHandler.ListForEvent),
		http.MethodPost: http.HandlerFunc(invitationsHandler.Create),
	}))
	mux.Handle("/api/v1/events/{id}/invitations/batch", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(invitationsHandler.CreateBatch),
	}))
	mux.Handle("/api/v1/events/{id}/invitations/statistics", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(invitationsHandler.Statistics),
	}))
	mux.Handle("/api/v1/invitations", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(invitationsHandler.ListByEmail),
	}))
	mux.Handle("/api/v1/invitations/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: http.HandlerFunc(invitationsHandler.Delete),
	}))
	mux.Handle("/api/v1/invitations/{id}/respond", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(invitationsHandler.Respond),
	}))
	mux.Handle("/api/v1/invitations/{id}/resend", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(invitationsHandler.Resend),
	}))

	mux.Handle("/api/v1/users/{id}/notifications", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(notificationsHandler.List),
	}))
	mux.Handle("/api/v1/users/{id}/notifications/unread-count", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(notificationsHandler.UnreadCount),
	}))
	mux.Handle("/api/v1/users/{id}/notifications/read-all", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(notificationsHandler.MarkAllRead),
	}))
	mux.Handle("/api/v1/notifications/{id}/read", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(notificationsHandler.MarkRead),
	}))

	var handler http.Handler = mux
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return &Router{Handler: handler, RiverClient: riverClient}, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
