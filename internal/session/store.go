package session

import (
	"sync"

	"github.com/AlexZinkM/dapp-wallet/internal/network"
)

// Subscriber receives a snapshot after every state change.
type Subscriber func(State)

// Store holds the session State and notifies subscribers on change.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn Subscriber
}

// NewStore returns a store in the disconnected state.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn and returns a function that removes it.
// Subscribers run synchronously on the mutating goroutine and must not
// call back into the controller.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// update applies fn, recomputes derived fields and notifies subscribers
// when the state actually changed.
func (s *Store) update(fn func(*State)) State {
	s.mu.Lock()
	before := s.state.clone()
	fn(&s.state)
	s.state.NetworkName = network.LabelOf(s.state.ChainID)
	snap := s.state.clone()
	if snap.equal(before) {
		s.mu.Unlock()
		return snap
	}
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
	return snap
}
