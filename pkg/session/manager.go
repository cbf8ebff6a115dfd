package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/algotrace/internal/logging"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/observability"
	"github.com/aretw0/algotrace/pkg/playback"
	"github.com/google/uuid"
)

// DefaultTTL is how long a session may stay untouched before Sweep closes it.
const DefaultTTL = 30 * time.Minute

// Session is one live player.
type Session struct {
	ID        string       `json:"id"`
	Algorithm string       `json:"algorithmId"`
	Input     domain.Input `json:"input"`
	CreatedAt time.Time    `json:"createdAt"`

	Player *playback.Player `json:"-"`

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// Manager orchestrates live sessions. Safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	streams  *streams

	ttl        time.Duration
	now        func() time.Time
	playerOpts []playback.Option
	metrics    *observability.Collector
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTTL sets the idle timeout. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithNow replaces the time source used for idle tracking.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithPlayerOptions applies opts to every player the Manager creates.
func WithPlayerOptions(opts ...playback.Option) Option {
	return func(m *Manager) {
		m.playerOpts = append(m.playerOpts, opts...)
	}
}

// WithMetrics records session and emission metrics.
func WithMetrics(c *observability.Collector) Option {
	return func(m *Manager) {
		m.metrics = c
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	m.streams = newStreams(m.logger)
	return m
}

// Open starts a session for run. The player is loaded and positioned on the
// initial snapshot; extra options override the Manager defaults.
func (m *Manager) Open(run *domain.Run, in domain.Input, opts ...playback.Option) *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Algorithm: run.Algorithm,
		Input:     in.Clone(),
		CreatedAt: now,
		lastSeen:  now,
	}

	playerOpts := append([]playback.Option{playback.WithLogger(m.logger.With("session_id", s.ID))}, m.playerOpts...)
	s.Player = playback.New(append(playerOpts, opts...)...)
	s.Player.Load(run, m.hooks(s.ID))

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.metrics.SessionOpened()
	m.logger.Info("session opened", "session_id", s.ID, "algorithm", s.Algorithm, "steps", run.Len())
	return s
}

func (m *Manager) hooks(id string) *playback.Hooks {
	publish := func(ev Event) {
		m.metrics.Emission(ev.Type)
		m.streams.broadcast(id, ev)
	}
	return &playback.Hooks{
		OnStep: func(e playback.Emission) {
			publish(Event{Type: EventStep, Emission: &e})
		},
		OnPlay:  func() { publish(Event{Type: EventPlay}) },
		OnPause: func() { publish(Event{Type: EventPause}) },
		OnReset: func() { publish(Event{Type: EventReset}) },
	}
}

// Get returns the session and marks it used.
// Returns domain.ErrSessionNotFound for unknown or closed IDs.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	s.touch(m.now())
	return s, nil
}

// Close stops the player, ends all subscriptions and forgets the session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	s.Player.Close()
	m.streams.closeSession(id)
	m.metrics.SessionClosed()
	m.logger.Info("session closed", "session_id", id)
	return nil
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	for _, id := range m.List() {
		_ = m.Close(id)
	}
}

// List returns the live session IDs, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Subscribe returns a channel of the session's events and a cancel function.
// The channel is closed by cancel or when the session closes.
func (m *Manager) Subscribe(id string) (<-chan Event, func(), error) {
	if _, err := m.Get(id); err != nil {
		return nil, nil, err
	}
	ch, cancel := m.streams.subscribe(id)
	return ch, cancel, nil
}

// Subscribers reports how many subscriptions a session has.
func (m *Manager) Subscribers(id string) int {
	return m.streams.count(id)
}

// Sweep closes sessions idle for longer than the TTL and returns how many.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	deadline := m.now().Add(-m.ttl)

	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		// Sessions with live subscribers are in use even if no command arrives.
		if s.LastSeen().Before(deadline) && m.streams.count(id) == 0 {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		if err := m.Close(id); err == nil {
			m.logger.Debug("session expired", "session_id", id)
		}
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done, then closes every session.
func (m *Manager) Run(ctx context.Context) error {
	defer m.CloseAll()
	if m.ttl <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(max(m.ttl/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}
