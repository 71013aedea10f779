package logging

import (
	"sync"
)

// ErrorSampler throttles logs for failures that repeat while a remote service is down.
// The first failure of a streak is logged, then every Nth one; a success ends the streak.
type ErrorSampler struct {
	mu       sync.Mutex
	streaks  map[string]int
	interval int
}

// NewErrorSampler creates a sampler logging every interval-th repeat (10 when interval < 1).
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		streaks:  make(map[string]int),
		interval: interval,
	}
}

// Record counts a failure for key and reports whether it should be logged along with
// the length of the current streak.
func (s *ErrorSampler) Record(key string) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streaks[key]++
	n := s.streaks[key]
	return n == 1 || n%s.interval == 0, n
}

// Streak returns the number of consecutive failures recorded for key.
func (s *ErrorSampler) Streak(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaks[key]
}

// Reset ends the streak for key and reports how long it was.
func (s *ErrorSampler) Reset(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.streaks[key]
	delete(s.streaks, key)
	return n
}
