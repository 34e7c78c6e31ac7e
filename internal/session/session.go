// Package session holds per-conversation state: the ordered list of rows
// most recently shown ("#N" references) and the single row most recently
// discussed (pronoun follow-ups). State is keyed by session ID so that
// concurrent conversations cannot clobber each other's context.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Entry is a snapshot of one listing shown to the user.
type Entry struct {
	RowIndex int
	Address  string
}

type state struct {
	resultList  []Entry
	hasList     bool
	lastListing *Entry
	lastSeen    time.Time
}

// Manager owns all session state. All access goes through its lock; sessions
// idle past the TTL are pruned.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*state
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*state),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Manager) touch(id string) *state {
	st := m.sessions[id]
	if st == nil {
		st = &state{}
		m.sessions[id] = st
	}
	st.lastSeen = m.now()
	return st
}

// SetResultList replaces the session's result list wholesale.
func (m *Manager) SetResultList(id string, entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.touch(id)
	st.resultList = append([]Entry(nil), entries...)
	st.hasList = true
}

// ResolveIndex resolves a 1-based "#N" reference against the current result
// list and records the hit as the last listing. Failures are descriptive
// sentences meant to be shown to the user as a normal reply.
func (m *Manager) ResolveIndex(id string, n int) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.touch(id)
	if !st.hasList {
		return Entry{}, errors.New("I haven't shown you a list of properties yet. Ask me to list some listings first, then refer to them by number.")
	}
	if n < 1 || n > len(st.resultList) {
		return Entry{}, fmt.Errorf("I can't find #%d. The last list I showed you had %d listings.", n, len(st.resultList))
	}
	e := st.resultList[n-1]
	st.lastListing = &e
	return e, nil
}

// SetLastListing records the most recently discussed listing.
func (m *Manager) SetLastListing(id string, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.touch(id)
	st.lastListing = &e
}

// LastListing returns the most recently discussed listing, or a descriptive
// failure when none has been resolved yet in this session.
func (m *Manager) LastListing(id string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.touch(id)
	if st.lastListing == nil {
		return Entry{}, errors.New("We haven't discussed a specific listing yet. Ask about one by number or address first.")
	}
	return *st.lastListing, nil
}

// PruneExpired drops sessions idle longer than the TTL and reports how many
// were removed.
func (m *Manager) PruneExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, st := range m.sessions {
		if st.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run prunes expired sessions on a fixed cadence until stop is closed.
func (m *Manager) Run(stop <-chan struct{}) {
	interval := m.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			m.PruneExpired()
		case <-stop:
			return
		}
	}
}
