// Package ratelimit tracks failed login attempts per client key.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a key has exhausted its failed-attempt budget.
// The in-memory implementation suits a single process; deployments with
// several instances need a shared counter store behind the same interface.
type Limiter interface {
	IsLimited(key string) bool
	RecordAttempt(key string)
	Reset(key string)
}

// Memory is a sliding-window Limiter held in process memory.
type Memory struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewMemory creates a limiter that blocks a key once maxAttempts failures
// fall inside the trailing window.
func NewMemory(maxAttempts int, window time.Duration) *Memory {
	return &Memory{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// IsLimited prunes expired attempts for key and reports whether the
// remaining count reached the threshold.
func (m *Memory) IsLimited(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	recent := m.prune(key)
	return len(recent) >= m.maxAttempts
}

// RecordAttempt stores a failed attempt for key.
func (m *Memory) RecordAttempt(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts[key] = append(m.prune(key), m.now())
}

// Reset forgets every attempt for key.
func (m *Memory) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.attempts, key)
}

// Window returns the trailing window length.
func (m *Memory) Window() time.Duration {
	return m.window
}

// prune must be called with mu held.
func (m *Memory) prune(key string) []time.Time {
	list, ok := m.attempts[key]
	if !ok {
		return nil
	}

	cutoff := m.now().Add(-m.window)
	i := 0
	for i < len(list) && !list[i].After(cutoff) {
		i++
	}
	if i == len(list) {
		delete(m.attempts, key)
		return nil
	}
	if i > 0 {
		list = append(list[:0:0], list[i:]...)
		m.attempts[key] = list
	}
	return list
}
