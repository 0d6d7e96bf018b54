// Package service provides the implementation of the inventory business
// logic: the state machine over the catalog and its change-notification
// protocol.
package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dkarpov/bookstore/internal/catalog"
	bkerrors "github.com/dkarpov/bookstore/internal/errors"
	"github.com/dkarpov/bookstore/internal/notify"
	"github.com/dkarpov/bookstore/internal/store"
)

// InventoryService defines the operations the storefront facades consume.
// It abstracts the underlying catalog, persistence port and notifier.
type InventoryService interface {
	// AddBook stocks quantity copies of a title, creating the record on
	// first use. Metadata of an existing title is retained, not
	// overwritten. Returns ErrInvalidArgument for a bad title, price or
	// quantity.
	AddBook(ctx context.Context, title, author, publisher string, price, quantity int64) error

	// RemoveBook deletes a title from the catalog. Removing an absent
	// title succeeds and changes nothing.
	RemoveBook(ctx context.Context, title string) error

	// CheckQuantity reports the stocked quantity for a title, zero when
	// the title is absent. Read-only.
	CheckQuantity(ctx context.Context, title string) int64

	// FindBook retrieves the record for a title. Read-only.
	FindBook(ctx context.Context, title string) (*catalog.BookRecord, bool)

	// ListBooks returns a snapshot of the catalog in insertion order.
	ListBooks(ctx context.Context) []catalog.BookRecord

	// SellBook removes quantity copies of a title from stock. Returns
	// false, without touching the catalog, when the title is absent or
	// holds fewer copies than requested. The discounted flag selects the
	// sale's audit label only; it never changes the quantity math.
	SellBook(ctx context.Context, title string, quantity int64, discounted bool) (bool, error)

	// LoadFromStore replaces the catalog with the persisted state. The
	// previous catalog is kept on failure.
	LoadFromStore(ctx context.Context) error

	// SaveToStore writes the whole catalog through the persistence port.
	SaveToStore(ctx context.Context) error

	// AuthenticateAdmin checks the supplied secret against the configured
	// administrator secret in constant time.
	AuthenticateAdmin(suppliedSecret string) bool
}

// Inventory implements InventoryService. Every mutating operation runs
// under one exclusive lock: validate, mutate the catalog, persist, notify.
// The in-memory mutation is provisional until the persistence port accepts
// the write; on a write failure the mutation is rolled back and observers
// are never fired, so observers only ever see committed state.
type Inventory struct {
	mu          sync.Mutex
	catalog     *catalog.Store
	port        store.CatalogPort
	notifier    *notify.Notifier
	adminSecret string
	logger      *slog.Logger
}

var _ InventoryService = (*Inventory)(nil)
var _ notify.CatalogReader = (*Inventory)(nil)

// NewInventory creates the inventory service over the given catalog store,
// persistence port and notifier.
func NewInventory(cat *catalog.Store, port store.CatalogPort, notifier *notify.Notifier, adminSecret string, logger *slog.Logger) *Inventory {
	return &Inventory{
		catalog:     cat,
		port:        port,
		notifier:    notifier,
		adminSecret: adminSecret,
		logger:      logger.With("component", "inventory"),
	}
}

// Notifier exposes the change notifier for observer registration.
func (s *Inventory) Notifier() *notify.Notifier {
	return s.notifier
}

func (s *Inventory) AddBook(ctx context.Context, title, author, publisher string, price, quantity int64) error {
	if title == "" {
		return fmt.Errorf("%w: title must not be empty", bkerrors.ErrInvalidArgument)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", bkerrors.ErrInvalidArgument, quantity)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative, got %d", bkerrors.ErrInvalidArgument, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.catalog.All()
	if err := s.catalog.Upsert(title, author, publisher, price, quantity); err != nil {
		return fmt.Errorf("%w: %v", bkerrors.ErrInvalidArgument, err)
	}
	if err := s.persist(ctx, before); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Book stocked", "title", title, "added", quantity)
	s.fanOut(ctx, "add")
	return nil
}

func (s *Inventory) RemoveBook(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Find(title); !ok {
		// Idempotent: removing an absent title commits no mutation, so
		// neither persistence nor observers fire.
		return nil
	}

	before := s.catalog.All()
	s.catalog.Remove(title)
	if err := s.persist(ctx, before); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Book removed", "title", title)
	s.fanOut(ctx, "remove")
	return nil
}

func (s *Inventory) CheckQuantity(_ context.Context, title string) int64 {
	b, ok := s.catalog.Find(title)
	if !ok {
		return 0
	}
	return b.Quantity
}

func (s *Inventory) FindBook(_ context.Context, title string) (*catalog.BookRecord, bool) {
	return s.catalog.Find(title)
}

func (s *Inventory) ListBooks(_ context.Context) []catalog.BookRecord {
	return s.catalog.All()
}

func (s *Inventory) SellBook(ctx context.Context, title string, quantity int64, discounted bool) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("%w: quantity must be positive, got %d", bkerrors.ErrInvalidArgument, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.catalog.All()
	if !s.catalog.Decrement(title, quantity) {
		return false, nil
	}
	if err := s.persist(ctx, before); err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "Book sold",
		"title", title,
		"quantity", quantity,
		"sale", PolicyFor(discounted).Label(),
	)
	s.fanOut(ctx, "sell")
	return true, nil
}

func (s *Inventory) LoadFromStore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.port.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", bkerrors.ErrPersistence, err)
	}
	s.catalog.Replace(records)
	s.logger.InfoContext(ctx, "Catalog loaded", "titles", len(records))
	s.fanOut(ctx, "load")
	return nil
}

func (s *Inventory) SaveToStore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.port.Save(ctx, s.catalog.All()); err != nil {
		return fmt.Errorf("%w: %w", bkerrors.ErrPersistence, err)
	}
	return nil
}

func (s *Inventory) AuthenticateAdmin(suppliedSecret string) bool {
	return subtle.ConstantTimeCompare([]byte(suppliedSecret), []byte(s.adminSecret)) == 1
}

// persist writes the catalog through the port and rolls the in-memory
// state back to the before snapshot when the write fails.
func (s *Inventory) persist(ctx context.Context, before []catalog.BookRecord) error {
	if err := s.port.Save(ctx, s.catalog.All()); err != nil {
		s.catalog.Replace(before)
		return fmt.Errorf("%w: %w", bkerrors.ErrPersistence, err)
	}
	return nil
}

// fanOut notifies the observers of a committed mutation. An observer error
// aborts the remaining fan-out; the mutation stays committed, so the error
// is logged rather than surfaced to the caller.
func (s *Inventory) fanOut(ctx context.Context, op string) {
	if err := s.notifier.Notify(); err != nil {
		s.logger.WarnContext(ctx, "Observer notification aborted", "op", op, "error", err)
	}
}
