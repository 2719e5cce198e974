package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"techevents/internal/delivery/http/helpers"
	"techevents/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	users     []*domain.User
	listErr   error
	createErr error
	lastName  string
	lastEmail string
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return f.users, f.listErr
}

func (f *fakeUserService) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	f.lastName, f.lastEmail = name, email
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.User{ID: "user-1", Name: name, Email: email}, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	events     []*domain.Event
	bySlug     map[string]*domain.Event
	err        error
	lastCreate *domain.Event
	lastID     string
	lastUpdate *domain.Event
}

func (f *fakeEventService) CreateEvent(ctx context.Context, e *domain.Event) error {
	f.lastCreate = e
	if f.err != nil {
		return f.err
	}
	e.ID = "event-1"
	e.Slug = "created-slug"
	return nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, e *domain.Event) (*domain.Event, error) {
	f.lastID, f.lastUpdate = id, e
	if f.err != nil {
		return nil, f.err
	}
	e.ID = id
	return e, nil
}

func (f *fakeEventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.bySlug[slug]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.events, f.err
}

// fakeBookingService implements domain.BookingService for handler tests.
type fakeBookingService struct {
	err         error
	bookings    []*domain.Booking
	lastID      string
	lastEventID string
	lastEmail   string
}

func (f *fakeBookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	f.lastEventID, f.lastEmail = eventID, email
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: "booking-1", EventID: eventID, Email: email}, nil
}

func (f *fakeBookingService) UpdateBooking(ctx context.Context, id, eventID, email string) (*domain.Booking, error) {
	f.lastID, f.lastEventID, f.lastEmail = id, eventID, email
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: id, EventID: eventID, Email: email}, nil
}

func (f *fakeBookingService) ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	f.lastEventID = eventID
	return f.bookings, f.err
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}

// decodeData re-decodes envelope.Data into dest.
func decodeData(t *testing.T, envelope helpers.APIResponse, dest any) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}
