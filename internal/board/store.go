package board

import (
	"sync"

	"github.com/safina-app/safina/internal/expense"
)

// Store is the single in-memory source of truth for the dashboard
// session. It is mutated only through its three operations: a wholesale
// replacement after a refetch, a single-record replacement after a
// successful commit, and a snapshot restore on rollback. Readers
// subscribe for change notifications instead of polling.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]expense.Request
	order []string // fetch order; also the in-column card order
	subs  []chan struct{}
}

func NewStore() *Store {
	return &Store{byID: make(map[string]expense.Request)}
}

// ReplaceAll swaps the whole collection for the given list, preserving
// its order as the new fetch order.
func (s *Store) ReplaceAll(list []expense.Request) {
	s.mu.Lock()

	s.byID = make(map[string]expense.Request, len(list))
	s.order = make([]string, 0, len(list))

	for _, r := range list {
		s.byID[r.ID] = r.Clone()
		s.order = append(s.order, r.ID)
	}

	s.mu.Unlock()
	s.notify()
}

// ReplaceOne stores the record verbatim, keeping its position in the
// fetch order. Unknown ids are appended.
func (s *Store) ReplaceOne(r expense.Request) {
	s.mu.Lock()

	if _, ok := s.byID[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}

	s.byID[r.ID] = r.Clone()

	s.mu.Unlock()
	s.notify()
}

// Restore puts a pre-move snapshot back. It is ReplaceOne under a name
// that states the intent: rollback is a pure function of the snapshot.
func (s *Store) Restore(snapshot expense.Request) {
	s.ReplaceOne(snapshot)
}

func (s *Store) Get(id string) (expense.Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return expense.Request{}, false
	}

	return r.Clone(), true
}

// List returns the collection in fetch order.
func (s *Store) List() []expense.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]expense.Request, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}

	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// Subscribe returns a channel that receives a signal after every
// mutation. The channel is buffered; a slow reader coalesces signals
// instead of blocking writers.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
