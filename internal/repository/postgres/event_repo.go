package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"techevents/internal/database"
	"techevents/internal/domain"
)

const eventColumns = `id, title, slug, description, overview, image, venue, location,
	event_date, event_time, mode, audience, agenda, organizer, tags, starts_at, created_at, updated_at`

// eventRow is the storage shape of domain.Event.
type eventRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Slug        string         `db:"slug"`
	Description string         `db:"description"`
	Overview    string         `db:"overview"`
	Image       string         `db:"image"`
	Venue       string         `db:"venue"`
	Location    string         `db:"location"`
	Date        string         `db:"event_date"`
	Time        string         `db:"event_time"`
	Mode        string         `db:"mode"`
	Audience    string         `db:"audience"`
	Agenda      pq.StringArray `db:"agenda"`
	Organizer   string         `db:"organizer"`
	Tags        pq.StringArray `db:"tags"`
	StartsAt    sql.NullTime   `db:"starts_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r eventRow) toDomain() *domain.Event {
	e := &domain.Event{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Overview:    r.Overview,
		Image:       r.Image,
		Venue:       r.Venue,
		Location:    r.Location,
		Date:        r.Date,
		Time:        r.Time,
		Mode:        domain.EventMode(r.Mode),
		Audience:    r.Audience,
		Agenda:      []string(r.Agenda),
		Organizer:   r.Organizer,
		Tags:        []string(r.Tags),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.StartsAt.Valid {
		t := r.StartsAt.Time
		e.StartsAt = &t
	}
	return e
}

type eventRepository struct {
	conn database.Provider
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(conn database.Provider) domain.EventRepository {
	return &eventRepository{conn: conn}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (title, slug, description, overview, image, venue, location,
			event_date, event_time, mode, audience, agenda, organizer, tags, starts_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	err = db.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, string(e.Mode), e.Audience, pq.StringArray(e.Agenda), e.Organizer,
		pq.StringArray(e.Tags), nullTime(e.StartsAt), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return mapEventWriteErr(err)
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE events
		SET title = $1, slug = $2, description = $3, overview = $4, image = $5, venue = $6,
			location = $7, event_date = $8, event_time = $9, mode = $10, audience = $11,
			agenda = $12, organizer = $13, tags = $14, starts_at = $15, updated_at = $16
		WHERE id = $17
	`
	result, err := db.ExecContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, string(e.Mode), e.Audience, pq.StringArray(e.Agenda), e.Organizer,
		pq.StringArray(e.Tags), nullTime(e.StartsAt), e.UpdatedAt, e.ID,
	)
	if err != nil {
		return mapEventWriteErr(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *eventRepository) getOne(ctx context.Context, query string, arg any) (*domain.Event, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var row eventRow
	if err := db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var rows []eventRow
	if err := db.SelectContext(ctx, &rows, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	events := make([]*domain.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, nil
}

func (r *eventRepository) Exists(ctx context.Context, id string) (bool, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	err = db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id)
	return exists, err
}

func (r *eventRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return false, err
	}
	var taken bool
	err = db.GetContext(ctx, &taken, `SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1 AND id::text <> $2)`, slug, excludeID)
	return taken, err
}

func mapEventWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint := pgError(err); code == uniqueViolation && constraint == "events_slug_key" {
		return fmt.Errorf("%w: %v", domain.ErrDuplicateSlug, err)
	}
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
