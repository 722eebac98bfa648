// Package mem holds process-local caches.
package mem

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterStore hands out one token bucket per key and forgets buckets that
// have been idle longer than ttl.
type LimiterStore interface {
	Get(key string) *rate.Limiter
	// Sweep drops idle entries and returns how many were removed.
	Sweep() int
	Len() int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiters struct {
	mu    sync.Mutex
	data  map[string]*entry
	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time
}

func NewLimiters(rps float64, burst int, ttl time.Duration) *Limiters {
	return &Limiters{
		data:  make(map[string]*entry),
		limit: rate.Limit(rps),
		burst: burst,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Limiters) Get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.data[key] = e
	}
	e.lastSeen = s.now()
	return e.limiter
}

func (s *Limiters) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for k, e := range s.data {
		if e.lastSeen.Before(cutoff) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

func (s *Limiters) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
