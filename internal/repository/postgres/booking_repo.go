package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"techevents/internal/database"
	"techevents/internal/domain"
)

type bookingRow struct {
	ID        string    `db:"id"`
	EventID   string    `db:"event_id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r bookingRow) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:        r.ID,
		EventID:   r.EventID,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type bookingRepository struct {
	conn database.Provider
}

// NewBookingRepository returns a domain.BookingRepository implemented with Postgres.
func NewBookingRepository(conn database.Provider) domain.BookingRepository {
	return &bookingRepository{conn: conn}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (event_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = db.QueryRowContext(ctx, query, b.EventID, b.Email, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	return mapBookingWriteErr(err)
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE bookings
		SET event_id = $1, email = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := db.ExecContext(ctx, query, b.EventID, b.Email, b.UpdatedAt, b.ID)
	if err != nil {
		return mapBookingWriteErr(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var row bookingRow
	if err := db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	var rows []bookingRow
	if err := db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, err
	}
	bookings := make([]*domain.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toDomain())
	}
	return bookings, nil
}

func mapBookingWriteErr(err error) error {
	if err == nil {
		return nil
	}
	switch code, _ := pgError(err); code {
	case uniqueViolation:
		return fmt.Errorf("%w: %v", domain.ErrDuplicateBooking, err)
	case foreignKeyViolation:
		return fmt.Errorf("%w: %v", domain.ErrEventReference, err)
	}
	return err
}
