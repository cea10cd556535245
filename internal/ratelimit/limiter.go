package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow admits at most `limit` calls within any trailing window.
//
// It keeps a log of admission timestamps rather than a refill counter, so
// admission is exact over the trailing window. One instance is shared by
// every outbound provider call in the process; all access is serialized by
// the mutex. Rejected attempts are not recorded.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time

	now func() time.Time // replaced in tests
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		stamps: make([]time.Time, 0, limit),
		now:    time.Now,
	}
}

// TryConsume reports whether this call is admitted. Admission appends the
// current time to the log; rejection leaves the log untouched so a burst of
// rejected calls cannot extend the penalty.
func (s *SlidingWindow) TryConsume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	kept := s.stamps[:0]
	for _, t := range s.stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	s.stamps = kept

	if len(s.stamps) >= s.limit {
		return false
	}

	s.stamps = append(s.stamps, now)
	return true
}
