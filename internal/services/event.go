package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"techevents/internal/domain"
)

// maxSlugAttempts bounds the suffix search for a free slug.
const maxSlugAttempts = 1000

type eventService struct {
	eventRepo      domain.EventRepository
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService returns an EventService that runs the event write pipeline:
// field validation, date/time normalisation, slug derivation, then persistence.
func NewEventService(eventRepo domain.EventRepository, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	event.ID = ""
	event.Slug = ""
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.prepare(ctx, event, newEvent); err != nil {
		return err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return s.mapWriteErr(event, err, "create event")
	}
	s.logger.InfoContext(ctx, "event created", "id", event.ID, "slug", event.Slug)
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	stored, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	updated := *event
	updated.ID = stored.ID
	updated.Slug = stored.Slug
	updated.StartsAt = stored.StartsAt
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = s.now()

	trimEventFields(&updated)
	if err := s.prepare(ctx, &updated, diffEvent(stored, &updated)); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.mapWriteErr(&updated, err, "update event")
	}
	return &updated, nil
}

// prepare validates and normalises e in place. Derived fields are only
// recomputed for the fields marked in changes; with no title change the stored
// slug is kept as is.
func (s *eventService) prepare(ctx context.Context, e *domain.Event, changes eventChanges) error {
	trimEventFields(e)
	violations := validateEventFields(e)
	if changes.date && e.Date != "" {
		violations = append(violations, normalizeDate(e, e.UpdatedAt)...)
	}
	if changes.time && e.Time != "" {
		violations = append(violations, normalizeTime(e)...)
	}

	var base string
	if changes.title && e.Title != "" {
		base = Slugify(e.Title)
		if base == "" {
			violations = append(violations, "title must contain at least one letter or digit")
		}
	}
	if err := domain.NewFieldValidationError("event", violations); err != nil {
		return err
	}

	if changes.title {
		slug, err := s.uniqueSlug(ctx, base, e.ID)
		if err != nil {
			return err
		}
		e.Slug = slug
	}
	return nil
}

// uniqueSlug probes base, base-1, base-2, ... and returns the first candidate
// no other event holds. The probe and the later write are not atomic; the
// unique index on events.slug rejects the loser of a concurrent race.
func (s *eventService) uniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := slugCandidate(base, attempt)
		taken, err := s.eventRepo.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", &domain.ConflictError{Entity: "event", Message: fmt.Sprintf("no free slug for %q", base)}
}

func (s *eventService) mapWriteErr(e *domain.Event, err error, op string) error {
	if errors.Is(err, domain.ErrDuplicateSlug) {
		s.logger.Warn("slug taken by concurrent write", "slug", e.Slug)
		return &domain.ConflictError{
			Entity:  "event",
			Message: fmt.Sprintf("slug %q is already in use, retry the request", e.Slug),
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
