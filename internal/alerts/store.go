package alerts

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Store is an in-memory keyed collection of alerts, safe for arbitrary
// concurrent Create/Transition/Read access. Entries carry their own lock so
// transitions on distinct alerts never serialize against each other; the
// sync.Map handles create/lookup without a collection-wide mutex.
type Store struct {
	entries sync.Map // alert ID -> *entry
	active  atomic.Int64
}

type entry struct {
	mu    sync.Mutex
	alert Alert
}

func NewStore() *Store {
	return &Store{}
}

// Create stores the alert and bumps the active counter. The caller owns
// identity assignment; each ID maps to at most one alert.
func (s *Store) Create(a *Alert) *Alert {
	e := &entry{alert: *a}
	s.entries.Store(a.ID, e)
	s.active.Add(1)
	out := *a
	return &out
}

// Get returns a copy of the alert, or ErrAlertNotFound.
func (s *Store) Get(id string) (*Alert, error) {
	v, ok := s.entries.Load(id)
	if !ok {
		return nil, ErrAlertNotFound
	}
	e := v.(*entry)
	e.mu.Lock()
	out := e.alert
	e.mu.Unlock()
	return &out, nil
}

// Transition applies mutate to the alert under its entry lock and returns the
// updated copy. The whole read-modify-write is atomic per alert; concurrent
// transitions on the same ID are serialized, last-applied-wins.
//
// The active counter is decremented exactly once, at the first transition
// that moves the alert out of Active. A Resolve applied to an already
// Acknowledged alert does not decrement again.
func (s *Store) Transition(id string, mutate func(*Alert)) (*Alert, error) {
	v, ok := s.entries.Load(id)
	if !ok {
		return nil, ErrAlertNotFound
	}
	e := v.(*entry)
	e.mu.Lock()
	wasActive := e.alert.Status == StatusActive
	mutate(&e.alert)
	if wasActive && e.alert.Status != StatusActive {
		s.active.Add(-1)
	}
	out := e.alert
	e.mu.Unlock()
	return &out, nil
}

// List returns a point-in-time snapshot ordered by descending timestamp.
// Each entry is read atomically; no isolation is guaranteed across the
// snapshot as a whole.
func (s *Store) List(activeOnly bool) []*Alert {
	var out []*Alert
	s.entries.Range(func(_, v any) bool {
		e := v.(*entry)
		e.mu.Lock()
		a := e.alert
		e.mu.Unlock()
		if activeOnly && a.Status != StatusActive {
			return true
		}
		out = append(out, &a)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Stats aggregates counts over a snapshot of the store.
func (s *Store) Stats() Stats {
	st := Stats{
		BySeverity: make(map[string]int),
		ByType:     make(map[string]int),
	}
	s.entries.Range(func(_, v any) bool {
		e := v.(*entry)
		e.mu.Lock()
		a := e.alert
		e.mu.Unlock()

		st.Total++
		switch a.Status {
		case StatusActive:
			st.Active++
		case StatusAcknowledged:
			st.Acknowledged++
		case StatusResolved:
			st.Resolved++
		}
		st.BySeverity[a.Severity]++
		st.ByType[a.Type]++
		return true
	})
	return st
}

// ActiveCount is the live counter of alerts currently in the Active state.
func (s *Store) ActiveCount() int64 {
	return s.active.Load()
}
