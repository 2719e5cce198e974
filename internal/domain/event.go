package domain

import (
	"context"
	"time"
)

// EventMode is where an event takes place.
type EventMode string

const (
	ModeOnline  EventMode = "online"
	ModeOffline EventMode = "offline"
	ModeHybrid  EventMode = "hybrid"
)

// Valid reports whether m is one of the supported modes.
func (m EventMode) Valid() bool {
	switch m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return true
	}
	return false
}

// Event represents one scheduled tech event.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Overview    string     `json:"overview"`
	Image       string     `json:"image"`
	Venue       string     `json:"venue"`
	Location    string     `json:"location"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Mode        EventMode  `json:"mode"`
	Audience    string     `json:"audience"`
	Agenda      []string   `json:"agenda"`
	Organizer   string     `json:"organizer"`
	Tags        []string   `json:"tags"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// Exists reports whether an event with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)
	// SlugTaken reports whether slug belongs to an event other than excludeID.
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

// EventService defines the write pipeline and queries for events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id string, event *Event) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
}
