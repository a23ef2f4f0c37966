// Package store keeps the ordered annotations of a canvas. Position in the
// store is z-order: later entries draw on top. Entries are appended and
// removed but never reordered.
package store

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"

	"github.com/example/shinemark/internal/annotation"
)

var (
	// ErrDuplicateID is returned when an annotation with the same ID is
	// already stored.
	ErrDuplicateID = errors.New("duplicate annotation id")
	// ErrAlreadyCreating is returned when appending a second annotation that
	// is still being created.
	ErrAlreadyCreating = errors.New("an annotation is already being created")
)

// Store is an ordered annotation collection. Mutation happens on the UI
// goroutine; the lock lets an export snapshot the contents from elsewhere.
type Store struct {
	mu    sync.RWMutex
	items []*annotation.Annotation
}

// New returns an empty store.
func New() *Store { return &Store{} }

// Append adds a on top of the existing annotations.
func (s *Store) Append(a *annotation.Annotation) error {
	if a == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == a.ID {
			return fmt.Errorf("append %s: %w", a.ID, ErrDuplicateID)
		}
		if a.Creating && it.Creating {
			return fmt.Errorf("append %s: %w", a.ID, ErrAlreadyCreating)
		}
	}
	s.items = append(s.items, a)
	return nil
}

// Remove deletes the annotation with the given ID and reports whether it was
// present.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// RemoveSelected deletes every selected annotation, keeping the order of the
// rest, and returns how many were removed.
func (s *Store) RemoveSelected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(a *annotation.Annotation) bool { return a.Selected })
	return before - len(s.items)
}

// ClearSelection unselects every annotation.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		a.Selected = false
	}
}

// Select marks the annotation with the given ID as selected. Annotations still
// being created are left alone.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 || s.items[i].Creating {
		return false
	}
	s.items[i].Selected = true
	return true
}

// All returns the annotations in z-order. The slice is a copy; the elements
// are shared.
func (s *Store) All() []*annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Snapshot returns deep copies of every annotation in z-order.
func (s *Store) Snapshot() []*annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*annotation.Annotation, len(s.items))
	for i, a := range s.items {
		out[i] = a.Clone()
	}
	return out
}

// Selected returns the selected annotations in z-order.
func (s *Store) Selected() []*annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*annotation.Annotation
	for _, a := range s.items {
		if a.Selected {
			out = append(out, a)
		}
	}
	return out
}

// Creating returns the annotation currently being created, if any.
func (s *Store) Creating() *annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.Creating {
			return a
		}
	}
	return nil
}

// Find returns the annotation with the given ID.
func (s *Store) Find(id string) *annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i]
	}
	return nil
}

// Index returns the z-position of id, or -1.
func (s *Store) Index(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index(id)
}

// HitTest returns the topmost committed annotation containing p.
func (s *Store) HitTest(p image.Point, tol int) *annotation.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		a := s.items[i]
		if !a.Creating && a.Contains(p, tol) {
			return a
		}
	}
	return nil
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes everything.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(a *annotation.Annotation) bool { return a.ID == id })
}
