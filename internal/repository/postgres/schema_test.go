package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	t.Run("applies embedded schema", func(t *testing.T) {
		conn, mock := newMockProvider(t)
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS events`).WillReturnResult(sqlmock.NewResult(0, 0))
		require.NoError(t, EnsureSchema(context.Background(), conn))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps exec error", func(t *testing.T) {
		conn, mock := newMockProvider(t)
		mock.ExpectExec(`CREATE TABLE`).WillReturnError(sql.ErrConnDone)
		err := EnsureSchema(context.Background(), conn)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestSchemaDeclaresIndexes(t *testing.T) {
	for _, want := range []string{
		"CONSTRAINT events_slug_key UNIQUE (slug)",
		"events_event_date_idx",
		"USING GIN (tags)",
		"events_mode_idx",
		"bookings_event_id_idx",
		"bookings_email_idx",
		"CONSTRAINT bookings_event_id_email_key UNIQUE (event_id, email)",
	} {
		assert.Contains(t, schemaSQL, want)
	}
}
