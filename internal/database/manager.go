// Package database owns the process-wide connection to Postgres.
package database

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/singleflight"

	"techevents/internal/domain"
)

const (
	defaultMaxOpenConns        = 10
	defaultServerSelectTimeout = 5 * time.Second
	defaultSocketIdleTimeout   = 45 * time.Second

	connectKey = "connect"
)

// errReleased is returned to callers of an attempt that Release overtook.
var errReleased = errors.New("connection released while connecting")

// Config describes where the backing store lives and how long to wait for it.
type Config struct {
	URL                 string
	MaxOpenConns        int
	ServerSelectTimeout time.Duration
	SocketIdleTimeout   time.Duration
}

// Provider hands out the shared database handle.
// Repositories call Acquire on every operation.
type Provider interface {
	Acquire(ctx context.Context) (*sqlx.DB, error)
}

// OpenFunc establishes a new connection pool.
type OpenFunc func(ctx context.Context, cfg Config) (*sqlx.DB, error)

// Option configures a Manager.
type Option func(*Manager)

// WithOpenFunc replaces the function used to connect. Used by tests.
func WithOpenFunc(fn OpenFunc) Option {
	return func(m *Manager) { m.open = fn }
}

// WithOnConnect registers a callback invoked once per successful connection.
func WithOnConnect(fn func(*sqlx.DB)) Option {
	return func(m *Manager) { m.onConnect = fn }
}

// Manager lazily connects to the database and caches the handle.
// Concurrent Acquire calls made before the first connection resolves share a
// single attempt. A failed attempt is not cached, so the next call retries.
// Release bumps gen, and an attempt started under an older gen closes its
// handle instead of publishing it.
type Manager struct {
	cfg       Config
	logger    *slog.Logger
	open      OpenFunc
	onConnect func(*sqlx.DB)

	group singleflight.Group
	mu    sync.RWMutex
	db    *sqlx.DB
	gen   uint64
}

// NewManager returns a Manager for cfg. Zero pool and timeout values take the defaults.
func NewManager(cfg Config, logger *slog.Logger, opts ...Option) *Manager {
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.ServerSelectTimeout <= 0 {
		cfg.ServerSelectTimeout = defaultServerSelectTimeout
	}
	if cfg.SocketIdleTimeout <= 0 {
		cfg.SocketIdleTimeout = defaultSocketIdleTimeout
	}
	m := &Manager{
		cfg:    cfg,
		logger: logger,
		open:   Open,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire returns the cached handle, connecting first if needed.
// Errors are always *domain.ConnectionError.
func (m *Manager) Acquire(ctx context.Context) (*sqlx.DB, error) {
	if db := m.current(); db != nil {
		return db, nil
	}
	if strings.TrimSpace(m.cfg.URL) == "" {
		return nil, &domain.ConnectionError{Op: "connect", Err: domain.ErrMissingDSN}
	}

	// The attempt outlives any single caller; it is bounded by ServerSelectTimeout instead.
	attemptCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(connectKey, func() (any, error) {
		m.mu.RLock()
		db, gen := m.db, m.gen
		m.mu.RUnlock()
		if db != nil {
			return db, nil
		}

		db, err := m.open(attemptCtx, m.cfg)
		if err != nil {
			m.logger.Error("database connection failed", "err", err)
			return nil, err
		}
		if !m.isCurrent(gen) {
			return nil, m.discard(db)
		}
		m.logger.Info("database connected")
		// Runs before the handle is published so callers never see a
		// handle whose setup is still in progress.
		if m.onConnect != nil {
			m.onConnect(db)
		}

		m.mu.Lock()
		if m.gen != gen {
			m.mu.Unlock()
			return nil, m.discard(db)
		}
		m.db = db
		m.mu.Unlock()
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, &domain.ConnectionError{Op: "connect", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, &domain.ConnectionError{Op: "connect", Err: res.Err}
		}
		return res.Val.(*sqlx.DB), nil
	}
}

// Release closes the cached handle and clears the manager's state.
// It is a no-op when no connection exists.
func (m *Manager) Release(_ context.Context) error {
	m.mu.Lock()
	db := m.db
	m.db = nil
	m.gen++
	m.mu.Unlock()
	m.group.Forget(connectKey)

	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return &domain.ConnectionError{Op: "close", Err: err}
	}
	m.logger.Info("database disconnected")
	return nil
}

// Status reports whether a live handle is cached.
func (m *Manager) Status() bool {
	return m.current() != nil
}

func (m *Manager) current() *sqlx.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

func (m *Manager) isCurrent(gen uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen == gen
}

// discard closes a handle from an attempt that Release overtook.
func (m *Manager) discard(db *sqlx.DB) error {
	if err := db.Close(); err != nil {
		m.logger.Warn("closing stale database handle", "err", err)
	}
	m.logger.Info("database connection discarded after release")
	return errReleased
}

// Open connects to Postgres and verifies the server answers within ServerSelectTimeout.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(cfg.SocketIdleTimeout)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ServerSelectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

type staticProvider struct {
	db *sqlx.DB
}

// StaticProvider returns a Provider that always hands out db.
func StaticProvider(db *sqlx.DB) Provider {
	return staticProvider{db: db}
}

func (p staticProvider) Acquire(_ context.Context) (*sqlx.DB, error) {
	return p.db, nil
}
