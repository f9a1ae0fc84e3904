package favorites

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Store owns the local favorites list and keeps it consistent with the
// backend. Every mutation goes backend-first: the local list changes only
// after the backend confirms, so a failed operation leaves it untouched.
type Store struct {
	mu        sync.RWMutex
	backend   Backend
	favorites []Favorite

	// onChange is invoked with a copy of the list after load and after
	// every successful mutation. It replaces the original UI's ambient
	// event bus with a directly-held callback.
	onChange func([]Favorite)
}

// NewStore creates a Store over the given backend. The list starts empty
// until Load is called.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// SetOnChange registers the list-change callback. Must be called before
// the store is used concurrently.
func (s *Store) SetOnChange(fn func([]Favorite)) {
	s.onChange = fn
}

// Load fetches the favorites list from the backend. On failure the list
// stays empty and the error is returned; the store remains usable.
func (s *Store) Load(ctx context.Context) error {
	favs, err := s.backend.List(ctx)
	if err != nil {
		return fmt.Errorf("loading favorites: %w", err)
	}

	s.mu.Lock()
	s.favorites = favs
	s.mu.Unlock()

	s.notify()
	return nil
}

// List returns a copy of the current favorites in backend order.
func (s *Store) List() []Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Favorite, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// Add normalizes the candidate, creates it on the backend and appends the
// backend-assigned record. There is no optimistic insert: on any failure
// the local list is unchanged.
func (s *Store) Add(ctx context.Context, candidate Candidate) (Favorite, error) {
	req, err := candidate.Normalize()
	if err != nil {
		return Favorite{}, err
	}

	saved, err := s.backend.Create(ctx, req)
	if err != nil {
		return Favorite{}, fmt.Errorf("adding favorite %q: %w", req.CityName, err)
	}

	s.mu.Lock()
	s.favorites = append(s.favorites, saved)
	s.mu.Unlock()

	s.notify()
	return saved, nil
}

// Remove deletes the favorite with the given id. Removing an id that is
// not in the list is a no-op success. On backend failure the local list
// is left unchanged.
func (s *Store) Remove(ctx context.Context, id ID) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("removing favorite %s: %w", id, err)
	}

	s.mu.Lock()
	removed := false
	kept := s.favorites[:0]
	for _, f := range s.favorites {
		if f.ID == id {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	s.favorites = kept
	s.mu.Unlock()

	if removed {
		s.notify()
	}
	return nil
}

// Clear deletes every favorite, one backend delete per entry, then always
// reconciles against a fresh backend list so the store never diverges from
// backend truth after a partial failure. The returned error joins all
// per-item failures (and the reconcile failure, if any).
func (s *Store) Clear(ctx context.Context) error {
	current := s.List()
	if len(current) == 0 {
		return nil
	}

	var errs []error
	deleted := make(map[ID]bool, len(current))
	for _, f := range current {
		if err := s.backend.Delete(ctx, f.ID); err != nil {
			errs = append(errs, fmt.Errorf("clearing favorite %s: %w", f.ID, err))
			continue
		}
		deleted[f.ID] = true
	}

	remaining, listErr := s.backend.List(ctx)
	if listErr != nil {
		// Reconcile failed; fall back to dropping only the confirmed
		// deletes so we never claim more than the backend did.
		log.Printf("favorites: reconcile after clear failed: %v", listErr)
		errs = append(errs, fmt.Errorf("reconciling after clear: %w", listErr))

		s.mu.Lock()
		kept := s.favorites[:0]
		for _, f := range s.favorites {
			if !deleted[f.ID] {
				kept = append(kept, f)
			}
		}
		s.favorites = kept
		s.mu.Unlock()
	} else {
		s.mu.Lock()
		s.favorites = remaining
		s.mu.Unlock()
	}

	s.notify()
	return errors.Join(errs...)
}

func (s *Store) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.List())
}
