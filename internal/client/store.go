package client

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// TempIDPrefix marks bookmarks that exist only locally while their create
// call is in flight.
const TempIDPrefix = "tmp-"

// Bookmark is implemented by the entity bookmark types.
type Bookmark[B any] interface {
	GetID() string
	WithID(id string) B
}

// Remote is the server side of one bookmark collection.
type Remote[B any] interface {
	List(ctx context.Context) ([]B, error)
	Create(ctx context.Context, bookmark B) (B, error)
	Delete(ctx context.Context, id string) error
}

// Store is a local bookmark collection for one content scope and language,
// kept in step with the server through optimistic mutations.
//
// Mutations are serialized. Each one bumps the revision when it is applied
// locally and again when the server answers. A refetch applies only when the
// revision it was issued at is still current and no mutation is in flight,
// so a response never overwrites newer local state. A failed mutation
// restores the collection as it was before the mutation.
type Store[B Bookmark[B]] struct {
	remote Remote[B]
	match  func(existing, candidate B) bool
	tempID func() string

	mutate sync.Mutex

	mu       sync.RWMutex
	items    []B
	revision uint64
	inflight int
}

// NewStore builds an empty store; match decides whether an existing bookmark
// already saves a candidate.
func NewStore[B Bookmark[B]](remote Remote[B], match func(existing, candidate B) bool) *Store[B] {
	return &Store[B]{
		remote: remote,
		match:  match,
		tempID: func() string { return TempIDPrefix + uuid.NewString() },
	}
}

// Items returns a copy of the current collection.
func (s *Store[B]) Items() []B {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]B(nil), s.items...)
}

// Find returns the bookmark saving candidate, if any.
func (s *Store[B]) Find(candidate B) (B, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.items, func(b B) bool { return s.match(b, candidate) })
}

// Refresh replaces the collection with the server's, unless a mutation
// started while the list was in flight or is still waiting on the server.
func (s *Store[B]) Refresh(ctx context.Context) error {
	s.mu.RLock()
	issued := s.revision
	s.mu.RUnlock()

	items, err := s.remote.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != issued || s.inflight > 0 {
		return nil
	}
	s.items = items
	return nil
}

// Toggle deletes the bookmark saving candidate or creates it. It reports
// whether a bookmark was created. The lookup runs under the mutation lock so
// rapid toggles of one key alternate in call order.
func (s *Store[B]) Toggle(ctx context.Context, candidate B) (bool, error) {
	s.mutate.Lock()
	existing, found := s.Find(candidate)
	var err error
	if found {
		err = s.deleteLocked(ctx, existing.GetID())
	} else {
		_, err = s.createLocked(ctx, candidate)
	}
	s.mutate.Unlock()
	if err != nil {
		return false, err
	}
	return !found, s.Refresh(ctx)
}

// Create appends candidate under a temporary id, then swaps in the server's
// bookmark and refetches.
func (s *Store[B]) Create(ctx context.Context, candidate B) (B, error) {
	s.mutate.Lock()
	created, err := s.createLocked(ctx, candidate)
	s.mutate.Unlock()
	if err != nil {
		return created, err
	}
	return created, s.Refresh(ctx)
}

// Delete removes the bookmark locally, then on the server.
func (s *Store[B]) Delete(ctx context.Context, id string) error {
	s.mutate.Lock()
	err := s.deleteLocked(ctx, id)
	s.mutate.Unlock()
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store[B]) createLocked(ctx context.Context, candidate B) (B, error) {
	tmp := candidate.WithID(s.tempID())
	snapshot := s.apply(func(items []B) []B { return append(items, tmp) })

	created, err := s.remote.Create(ctx, candidate.WithID(""))
	if err != nil {
		s.restore(snapshot)
		var zero B
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := lo.Find(s.items, func(b B) bool { return b.GetID() == tmp.GetID() }); ok {
		s.items = lo.Map(s.items, func(b B, _ int) B {
			if b.GetID() == tmp.GetID() {
				return created
			}
			return b
		})
	} else {
		s.items = append(s.items, created)
	}
	s.settleLocked()
	return created, nil
}

func (s *Store[B]) deleteLocked(ctx context.Context, id string) error {
	snapshot := s.apply(func(items []B) []B {
		return lo.Reject(items, func(b B, _ int) bool { return b.GetID() == id })
	})
	if err := s.remote.Delete(ctx, id); err != nil {
		s.restore(snapshot)
		return err
	}
	s.mu.Lock()
	s.settleLocked()
	s.mu.Unlock()
	return nil
}

// apply runs an optimistic change and returns the prior collection.
func (s *Store[B]) apply(change func([]B) []B) []B {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := append([]B(nil), s.items...)
	s.items = change(append([]B(nil), s.items...))
	s.revision++
	s.inflight++
	return snapshot
}

func (s *Store[B]) restore(snapshot []B) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snapshot
	s.settleLocked()
}

// settleLocked marks the pending mutation as answered by the server.
func (s *Store[B]) settleLocked() {
	s.revision++
	s.inflight--
}
