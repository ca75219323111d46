package demo

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"cipherlab/internal/catalogue"
)

// Registry holds the live sessions of every connected page. Sessions are kept
// in memory only and dropped after ttl of inactivity.
type Registry struct {
	clock clock.Clock
	ttl   time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(clk clock.Clock, ttl time.Duration) *Registry {
	if clk == nil {
		clk = clock.New()
	}
	return &Registry{clock: clk, ttl: ttl, sessions: make(map[string]*Session)}
}

func (r *Registry) Create(spec catalogue.Spec) *Session {
	s := newSession(uuid.NewString(), spec, r.clock.Now())
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(r.clock.Now())
	}
	return s, ok
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than ttl, except those with work in flight.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) && !s.Snapshot().IsProcessing {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration, onSweep func(int)) {
	t := r.clock.Ticker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
