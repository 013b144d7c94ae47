package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

func newTestRegistry(idleAfter time.Duration) *Registry {
	return NewRegistry(idleAfter, logger.New("test"))
}

func TestRegistry_CreatesSessionOnFirstContact(t *testing.T) {
	r := newTestRegistry(30 * time.Minute)

	r.withSession("cust-1", func(s *session) {
		require.Equal(t, SessionEmpty, s.state)
		require.Empty(t, s.lines)
	})
	require.Equal(t, 1, r.Len())
}

func TestRegistry_SameCustomerSerializes(t *testing.T) {
	r := newTestRegistry(30 * time.Minute)
	item := models.MenuItem{Number: 1, Name: "X-Burger", Price: 25.90, PrepMinutes: 15}

	const messages = 50
	var wg sync.WaitGroup
	for i := 0; i < messages; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.withSession("cust-1", func(s *session) {
				s.addLine(item)
			})
		}()
	}
	wg.Wait()

	r.withSession("cust-1", func(s *session) {
		require.Len(t, s.lines, messages)
		require.InDelta(t, 25.90*messages, s.total, 0.001)
		require.Equal(t, SessionAccumulating, s.state)
	})
}

func TestRegistry_CloseRemovesSession(t *testing.T) {
	r := newTestRegistry(30 * time.Minute)

	r.withSession("cust-1", func(s *session) {
		r.close("cust-1", s)
	})
	require.Equal(t, 0, r.Len())

	// The next message gets a fresh session, not the closed one.
	r.withSession("cust-1", func(s *session) {
		require.Equal(t, SessionEmpty, s.state)
		require.False(t, s.closed)
	})
}

func TestRegistry_EvictIdle(t *testing.T) {
	r := newTestRegistry(30 * time.Minute)

	r.withSession("idle", func(s *session) {})
	r.withSession("active", func(s *session) {})

	r.mu.Lock()
	r.sessions["idle"].lastActive = time.Now().Add(-time.Hour)
	r.mu.Unlock()

	evicted := r.evictIdle(time.Now())
	require.Equal(t, 1, evicted)
	require.Equal(t, 1, r.Len())

	r.mu.Lock()
	_, idleRemains := r.sessions["idle"]
	_, activeRemains := r.sessions["active"]
	r.mu.Unlock()
	require.False(t, idleRemains)
	require.True(t, activeRemains)
}

func TestRegistry_EvictSkipsInFlightSession(t *testing.T) {
	r := newTestRegistry(30 * time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		r.withSession("busy", func(s *session) {
			close(started)
			<-release
		})
		close(done)
	}()
	<-started

	r.mu.Lock()
	r.sessions["busy"].lastActive = time.Now().Add(-time.Hour)
	r.mu.Unlock()

	// The session lock is held by the in-flight message, so the sweep
	// must leave it alone.
	require.Equal(t, 0, r.evictIdle(time.Now()))
	require.Equal(t, 1, r.Len())

	close(release)
	<-done

	r.mu.Lock()
	r.sessions["busy"].lastActive = time.Now().Add(-time.Hour)
	r.mu.Unlock()
	require.Equal(t, 1, r.evictIdle(time.Now()))
}

func TestSession_AddLineRecomputesTotal(t *testing.T) {
	s := newSession(time.Now())

	s.addLine(models.MenuItem{Number: 1, Name: "X-Burger", Price: 25.90, PrepMinutes: 15})
	s.addLine(models.MenuItem{Number: 15, Name: "Refrigerante", Price: 6.50, PrepMinutes: 2})

	require.Len(t, s.lines, 2)
	require.InDelta(t, 32.40, s.total, 0.001)
	require.Equal(t, SessionAccumulating, s.state)
}
