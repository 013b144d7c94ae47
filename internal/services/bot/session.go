package bot

import (
	"context"
	"sync"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// SessionState is the explicit intake state of a conversation. Relying on
// map membership alone cannot distinguish "never seen" from "just checked
// out", so the state is tagged on the session itself.
type SessionState string

const (
	SessionEmpty        SessionState = "empty"
	SessionAccumulating SessionState = "accumulating"
)

// session is one customer's in-progress cart before checkout. All access
// happens under mu; the registry guarantees at most one in-flight message
// per customer at a time.
type session struct {
	mu         sync.Mutex
	state      SessionState
	lines      []models.CartLine
	total      float64
	lastActive time.Time
	closed     bool
}

func newSession(now time.Time) *session {
	return &session{
		state:      SessionEmpty,
		lastActive: now,
	}
}

// addLine snapshots a menu item into the cart. The running total is
// recomputed from the lines on every mutation so it can never drift.
func (s *session) addLine(item models.MenuItem) {
	s.lines = append(s.lines, models.NewCartLine(item))
	s.total = models.LinesTotal(s.lines)
	s.state = SessionAccumulating
}

// Registry owns the customer-id to session mapping. Sessions are created
// lazily on first contact and removed on checkout or idle eviction.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*session
	idleAfter time.Duration
	logger    *logger.Logger
}

// NewRegistry creates a session registry. Sessions idle longer than
// idleAfter are removed by the eviction sweep.
func NewRegistry(idleAfter time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		sessions:  make(map[string]*session),
		idleAfter: idleAfter,
		logger:    log,
	}
}

// withSession runs fn while holding the customer's session lock, creating
// the session if needed. Concurrent messages for the same customer
// serialize here; different customers never block each other. A session
// closed by a racing checkout is re-resolved so fn always sees a live one.
func (r *Registry) withSession(customerID string, fn func(s *session)) {
	for {
		r.mu.Lock()
		s, ok := r.sessions[customerID]
		if !ok {
			s = newSession(time.Now())
			r.sessions[customerID] = s
		}
		s.lastActive = time.Now()
		r.mu.Unlock()

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			continue
		}
		fn(s)
		s.mu.Unlock()
		return
	}
}

// close removes the session from the registry. The caller must hold the
// session's lock; one checkout fully consumes one session.
func (r *Registry) close(customerID string, s *session) {
	r.mu.Lock()
	if current, ok := r.sessions[customerID]; ok && current == s {
		delete(r.sessions, customerID)
	}
	r.mu.Unlock()
	s.closed = true
}

// Len reports the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// evictIdle removes sessions idle longer than the configured window and
// returns the count removed. Sessions with an in-flight message hold their
// own lock and are skipped until the next sweep.
func (r *Registry) evictIdle(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for customerID, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if !s.closed && now.Sub(s.lastActive) > r.idleAfter {
			s.closed = true
			delete(r.sessions, customerID)
			evicted++
		}
		s.mu.Unlock()
	}
	return evicted
}

// StartEviction runs the idle-eviction sweep until the context is done.
func (r *Registry) StartEviction(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := r.evictIdle(time.Now()); evicted > 0 {
				r.logger.Info("sessions_evicted", "Removed idle sessions", "", map[string]interface{}{
					"evicted": evicted,
				})
			}
		}
	}
}
