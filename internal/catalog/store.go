package catalog

import (
	"fmt"
	"sync"

	bkerrors "github.com/dkarpov/bookstore/internal/errors"
)

// Store is the in-memory catalog: a mapping from title to record that also
// remembers insertion order, so listings and serialization are
// deterministic. All access goes through its lock; the inventory service
// additionally serializes whole operations with its own exclusive lock.
type Store struct {
	mu    sync.RWMutex
	books map[string]*BookRecord
	order []string
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{
		books: make(map[string]*BookRecord),
	}
}

// Find retrieves a copy of the record for title. The second return value
// reports whether the title is present.
func (s *Store) Find(title string) (*BookRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[title]
	if !ok {
		return nil, false
	}
	copied := *b
	return &copied, true
}

// Upsert adds quantityDelta to the record for title, creating the record on
// first use. Metadata of an existing record is retained, never overwritten.
// Returns ErrInvalidQuantity without mutating if the resulting quantity
// would be negative.
func (s *Store) Upsert(title, author, publisher string, price, quantityDelta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.books[title]; ok {
		next := existing.Quantity + quantityDelta
		if next < 0 {
			return fmt.Errorf("%w: %q would hold %d copies", bkerrors.ErrInvalidQuantity, title, next)
		}
		existing.Quantity = next
		return nil
	}

	if quantityDelta < 0 {
		return fmt.Errorf("%w: %q would hold %d copies", bkerrors.ErrInvalidQuantity, title, quantityDelta)
	}
	s.books[title] = &BookRecord{
		Title:     title,
		Author:    author,
		Publisher: publisher,
		Price:     price,
		Quantity:  quantityDelta,
	}
	s.order = append(s.order, title)
	return nil
}

// Decrement subtracts amount from the record for title. It is the sole
// sell-path mutator: the availability check and the subtraction happen
// under one lock. Returns false without mutating when the title is absent
// or amount exceeds the current quantity.
func (s *Store) Decrement(title string, amount int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[title]
	if !ok || amount > b.Quantity {
		return false
	}
	b.Quantity -= amount
	return true
}

// Remove deletes the record for title. No-op if the title is absent.
func (s *Store) Remove(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[title]; !ok {
		return
	}
	delete(s.books, title)
	for i, t := range s.order {
		if t == title {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns a snapshot of every record in insertion order.
func (s *Store) All() []BookRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]BookRecord, 0, len(s.order))
	for _, title := range s.order {
		list = append(list, *s.books[title])
	}
	return list
}

// Replace swaps the whole catalog for the given records, keeping their
// order. A duplicate title keeps the last record seen.
func (s *Store) Replace(records []BookRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = make(map[string]*BookRecord, len(records))
	s.order = s.order[:0]
	for _, r := range records {
		copied := r
		if _, ok := s.books[r.Title]; !ok {
			s.order = append(s.order, r.Title)
		}
		s.books[r.Title] = &copied
	}
}

// Len reports the number of distinct titles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}
