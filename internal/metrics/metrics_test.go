package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// gather returns the registered metric families keyed by name.
func gather(t *testing.T, reg *prometheus.Registry) map[string][]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string][]float64, len(families))
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[f.GetName()] = append(out[f.GetName()], m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				out[f.GetName()] = append(out[f.GetName()], m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				out[f.GetName()] = append(out[f.GetName()], float64(m.GetHistogram().GetSampleCount()))
			}
		}
	}
	return out
}

func TestHTTP_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTP(reg)

	m.Observe(http.MethodGet, "GET /events", http.StatusOK, 20*time.Millisecond)
	m.Observe(http.MethodGet, "GET /events", http.StatusOK, 30*time.Millisecond)
	m.Observe(http.MethodPost, "POST /bookings", http.StatusNotFound, time.Millisecond)

	got := gather(t, reg)
	assert.ElementsMatch(t, []float64{2, 1}, got["techevents_http_requests_total"])
	assert.ElementsMatch(t, []float64{2, 1}, got["techevents_http_request_duration_seconds"])
}

func newSQLX(t *testing.T) *sqlx.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock")
}

func TestDB_TrackSwapsCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	d := NewDB(reg, discardLogger)
	assert.Equal(t, []float64{0}, gather(t, reg)["techevents_db_connected"])

	d.Track(newSQLX(t))
	got := gather(t, reg)
	assert.Equal(t, []float64{1}, got["techevents_db_connected"])
	assert.Contains(t, got, "go_sql_max_open_connections")

	// A second handle replaces the first without a duplicate registration.
	d.Track(newSQLX(t))
	assert.Len(t, gather(t, reg)["go_sql_max_open_connections"], 1)

	d.Untrack()
	got = gather(t, reg)
	assert.Equal(t, []float64{0}, got["techevents_db_connected"])
	for name := range got {
		assert.False(t, strings.HasPrefix(name, "go_sql_"), name)
	}
}
