// Package session keeps the live checkout sessions of the storefront.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/checkout"
)

// ErrLimitReached is returned when no new session can be opened.
var ErrLimitReached = &apperrors.AppError{
	Code:    "SESSION_LIMIT",
	Message: "too many active sessions, try again later",
	Status:  http.StatusServiceUnavailable,
	Err:     apperrors.ErrServiceUnavail,
}

var activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "storefront_sessions_active",
	Help: "Checkout sessions currently held in memory.",
})

func init() {
	prometheus.MustRegister(activeSessions)
}

// Factory builds a fresh session for id.
type Factory func(id string) *checkout.Session

// Config bounds the registry.
type Config struct {
	// IdleTTL evicts sessions not touched for this long.
	IdleTTL time.Duration
	// MaxSessions caps live sessions; zero means unlimited.
	MaxSessions int
}

type entry struct {
	session  *checkout.Session
	lastSeen time.Time
}

// Registry maps session ids to sessions. Nothing outlives the process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	factory  Factory
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, cfg Config, logger *slog.Logger) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &Registry{
		sessions: make(map[string]*entry),
		factory:  factory,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Create opens a session under a new random id.
func (r *Registry) Create() (*checkout.Session, error) {
	return r.GetOrCreate(uuid.NewString())
}

// Get returns the session for id and marks it as used.
func (r *Registry) Get(id string) (*checkout.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.session, true
}

// GetOrCreate returns the session for id, opening it when absent.
func (r *Registry) GetOrCreate(id string) (*checkout.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.sessions[id]; ok {
		e.lastSeen = now
		return e.session, nil
	}
	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		return nil, ErrLimitReached
	}

	s := r.factory(id)
	r.sessions[id] = &entry{session: s, lastSeen: now}
	activeSessions.Set(float64(len(r.sessions)))
	return s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.cfg.IdleTTL {
			delete(r.sessions, id)
			removed++
		}
	}
	activeSessions.Set(float64(len(r.sessions)))
	return removed
}

// Run sweeps every half TTL until ctx is canceled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.IdleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("idle sessions evicted", slog.Int("count", n), slog.Int("remaining", r.Len()))
			}
		}
	}
}
