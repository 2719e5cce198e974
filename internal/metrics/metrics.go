// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "techevents"

// HTTP records request counts and latencies per route.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP registers the HTTP collectors with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Observe records one finished request.
func (m *HTTP) Observe(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// DB exports pool statistics for the handle the connection manager holds.
// The handle can change after a reconnect, so the stats collector is swapped
// on every Track call.
type DB struct {
	reg       prometheus.Registerer
	logger    *slog.Logger
	connected prometheus.Gauge

	mu    sync.Mutex
	stats prometheus.Collector
}

// NewDB registers the connection gauge with reg.
func NewDB(reg prometheus.Registerer, logger *slog.Logger) *DB {
	return &DB{
		reg:    reg,
		logger: logger,
		connected: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connected",
			Help:      "1 while the process holds an open database handle",
		}),
	}
}

// Track starts exporting pool statistics for db.
func (d *DB) Track(db *sqlx.DB) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.unregisterLocked()
	stats := collectors.NewDBStatsCollector(db.DB, namespace)
	if err := d.reg.Register(stats); err != nil {
		d.logger.Error("can't register db stats collector", "error", err)
	} else {
		d.stats = stats
	}
	d.connected.Set(1)
}

// Untrack stops exporting pool statistics.
func (d *DB) Untrack() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.unregisterLocked()
	d.connected.Set(0)
}

func (d *DB) unregisterLocked() {
	if d.stats == nil {
		return
	}
	if !d.reg.Unregister(d.stats) {
		d.logger.Warn("db stats collector not registered")
	}
	d.stats = nil
}
