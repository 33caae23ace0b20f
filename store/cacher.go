package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xy-planning-network/gatekeeper"
)

var (
	_ Cacher = NewMemoryCacher()
	_ Cacher = new(RedisCacher)
	_ Cacher = new(GormCacher)
)

// A Cacher persists the State of each browser session.
//
// Load returns gatekeeper.ErrNotExist when nothing is saved for sid.
type Cacher interface {
	Load(ctx context.Context, sid string) (State, error)
	Save(ctx context.Context, sid string, st State) error
	Delete(ctx context.Context, sid string) error
}

// A MemoryCacher keeps State in a map.
//
// Server restarts reset this map.
// A MemoryCacher ought not be used when more than one server shares sessions.
type MemoryCacher struct {
	mu        sync.RWMutex
	states    map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// NewMemoryCacher constructs an empty MemoryCacher keeping State until it is deleted.
func NewMemoryCacher() *MemoryCacher { return NewMemoryCacherWithTTL(0) }

// NewMemoryCacherWithTTL constructs an empty MemoryCacher
// forgetting a session's State ttl after it was last saved.
// A ttl of zero or less keeps State until it is deleted.
func NewMemoryCacherWithTTL(ttl time.Duration) *MemoryCacher {
	return &MemoryCacher{states: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

// Load retrieves the State saved for sid.
func (m *MemoryCacher) Load(ctx context.Context, sid string) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.states[sid]
	if !ok || m.expired(e, m.now()) {
		return State{}, fmt.Errorf("%w: no state for session", gatekeeper.ErrNotExist)
	}

	return e.state, nil
}

// Save overwrites the State saved for sid, restarting its TTL.
//
// States are never mutated, so st is stored as is.
// Save also forgets expired State, at most once per TTL.
func (m *MemoryCacher) Save(ctx context.Context, sid string, st State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e := memoryEntry{state: st}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
		m.sweep(now)
	}

	m.states[sid] = e
	return nil
}

// Delete forgets the State saved for sid.
func (m *MemoryCacher) Delete(ctx context.Context, sid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.states[sid]
	if !ok {
		return fmt.Errorf("%w: no state for session", gatekeeper.ErrNotExist)
	}

	delete(m.states, sid)
	if m.expired(e, m.now()) {
		return fmt.Errorf("%w: no state for session", gatekeeper.ErrNotExist)
	}

	return nil
}

// Len reports how many sessions have State saved, expired or not.
func (m *MemoryCacher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.states)
}

func (m *MemoryCacher) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// sweep deletes expired entries unless it last ran less than a TTL ago.
// The caller holds the write lock.
func (m *MemoryCacher) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.ttl {
		return
	}

	for sid, e := range m.states {
		if m.expired(e, now) {
			delete(m.states, sid)
		}
	}
	m.lastSweep = now
}
