package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techevents/internal/delivery/http/controllers"
	"techevents/internal/domain"
	"techevents/internal/metrics"
)

type stubUsers struct{}

func (stubUsers) ListUsers(context.Context) ([]*domain.User, error) { return nil, nil }

func (stubUsers) CreateUser(_ context.Context, name, email string) (*domain.User, error) {
	return &domain.User{ID: "u1", Name: name, Email: email}, nil
}

type stubEvents struct{}

func (stubEvents) CreateEvent(context.Context, *domain.Event) error { return nil }

func (stubEvents) UpdateEvent(_ context.Context, id string, e *domain.Event) (*domain.Event, error) {
	return e, nil
}

func (stubEvents) GetEventBySlug(_ context.Context, slug string) (*domain.Event, error) {
	return &domain.Event{Slug: slug}, nil
}

func (stubEvents) ListEvents(context.Context) ([]*domain.Event, error) { return nil, nil }

type stubBookings struct{}

func (stubBookings) CreateBooking(_ context.Context, eventID, email string) (*domain.Booking, error) {
	return &domain.Booking{EventID: eventID, Email: email}, nil
}

func (stubBookings) UpdateBooking(_ context.Context, id, eventID, email string) (*domain.Booking, error) {
	return &domain.Booking{ID: id}, nil
}

func (stubBookings) ListEventBookings(context.Context, string) ([]*domain.Booking, error) {
	return nil, nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, error) {
	if token != "good" {
		return "", domain.ErrNotFound
	}
	return "ops", nil
}

type stubStatus struct{}

func (stubStatus) Status() bool { return true }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	return NewRouter(Controllers{
		Users:    controllers.NewUserController(logger, stubUsers{}),
		Events:   controllers.NewEventController(logger, stubEvents{}),
		Bookings: controllers.NewBookingController(logger, stubBookings{}),
		Health:   controllers.NewHealthController(stubStatus{}),
	}, RouterConfig{
		Logger:         logger,
		Verifier:       stubVerifier{},
		AllowedOrigins: []string{"https://events.example.com"},
		Metrics:        metrics.NewHTTP(reg),
		Gatherer:       reg,
	})
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
	}{
		{"list users", http.MethodGet, "/users", "", "", http.StatusOK},
		{"create user", http.MethodPost, "/users", `{"name":"a","email":"b"}`, "", http.StatusCreated},
		{"list events", http.MethodGet, "/events", "", "", http.StatusOK},
		{"event by slug", http.MethodGet, "/events/go-conf", "", "", http.StatusOK},
		{"create event needs token", http.MethodPost, "/events", `{}`, "", http.StatusUnauthorized},
		{"create event rejects bad token", http.MethodPost, "/events", `{}`, "bad", http.StatusUnauthorized},
		{"create event with token", http.MethodPost, "/events", `{}`, "good", http.StatusCreated},
		{"update event needs token", http.MethodPut, "/events/1", `{}`, "", http.StatusUnauthorized},
		{"event bookings needs token", http.MethodGet, "/events/1/bookings", "", "", http.StatusUnauthorized},
		{"event bookings with token", http.MethodGet, "/events/1/bookings", "", "good", http.StatusOK},
		{"book event is public", http.MethodPost, "/bookings", `{"event_id":"e","email":"a@b.co"}`, "", http.StatusCreated},
		{"update booking needs token", http.MethodPut, "/bookings/1", `{}`, "", http.StatusUnauthorized},
		{"health", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"no delete route", http.MethodDelete, "/events/1", "", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_MetricsExposesRequests(t *testing.T) {
	router := newTestRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://test/events", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://test/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `techevents_http_requests_total{method="GET",route="GET /events",status="200"} 1`)
}
