// Package session scopes memoized observation tables to dashboard sessions.
// Each session owns its own table; idle sessions are dropped after a TTL.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lox/habitatshift/internal/metrics"
	"github.com/lox/habitatshift/internal/models"
)

const DefaultTTL = 30 * time.Minute

// Session is one viewer's dashboard instance.
type Session struct {
	ID string

	memo *Memo

	mu       sync.Mutex
	lastSeen time.Time
}

// Table returns the session's table, generating it on first use.
func (s *Session) Table() *models.Table {
	return s.memo.Table()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Options configures a Store.
type Options struct {
	// Regenerate disables memoization: every Table call builds a new table.
	Regenerate bool
	TTL        time.Duration
	Clock      clockwork.Clock
}

// Store holds live sessions keyed by ID.
type Store struct {
	gen        TableGenerator
	regenerate bool
	ttl        time.Duration
	clock      clockwork.Clock

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(gen TableGenerator, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Store{
		gen:        gen,
		regenerate: opts.Regenerate,
		ttl:        opts.TTL,
		clock:      opts.Clock,
		sessions:   make(map[string]*Session),
	}
}

// Get returns a live session and marks it as seen. Expired sessions are
// treated as missing.
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	now := st.clock.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if now.Sub(s.idleSince()) > st.ttl {
		st.drop(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Create starts a new session with its own table.
func (st *Store) Create() *Session {
	memo := NewMemo(st.gen)
	if st.regenerate {
		memo = NewRegenerating(st.gen)
	}
	s := &Session{
		ID:       uuid.NewString(),
		memo:     memo,
		lastSeen: st.clock.Now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return s
}

// GetOrCreate returns the session for id, or a new one when id is unknown or
// expired. created reports which happened.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}
	return st.Create(), true
}

// Len returns the number of sessions held, including any not yet swept.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep() int {
	now := st.clock.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > st.ttl {
			st.drop(id)
			removed++
		}
	}
	return removed
}

// drop must be called with st.mu held.
func (st *Store) drop(id string) {
	delete(st.sessions, id)
	metrics.SessionsExpired.Inc()
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := st.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := st.Sweep(); n > 0 {
				log.Printf("swept %d idle sessions", n)
			}
		}
	}
}
