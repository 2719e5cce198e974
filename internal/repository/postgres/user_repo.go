package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"techevents/internal/database"
	"techevents/internal/domain"
)

type userRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{ID: r.ID, Name: r.Name, Email: r.Email, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type userRepository struct {
	conn database.Provider
}

func NewUserRepository(conn database.Provider) domain.UserRepository {
	return &userRepository{conn: conn}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return db.QueryRowContext(ctx, query, u.Name, u.Email, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`
	var row userRow
	if err := db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	db, err := r.conn.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var rows []userRow
	if err := db.SelectContext(ctx, &rows, `SELECT id, name, email, created_at, updated_at FROM users ORDER BY created_at`); err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}
