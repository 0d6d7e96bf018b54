// Package notify implements the change-notification protocol: a notifier
// holding registered observers that fire synchronously after every
// committed catalog mutation.
package notify

import (
	"context"

	"github.com/dkarpov/bookstore/internal/catalog"
)

// Observer is notified after every committed inventory mutation. Observers
// read inventory state through a CatalogReader; they never mutate it.
type Observer interface {
	Update() error
}

// CatalogReader is the query surface observers are allowed to hold. It is a
// back-reference only: the notifier and its observers never own the
// inventory service.
type CatalogReader interface {
	ListBooks(ctx context.Context) []catalog.BookRecord
}

// Notifier keeps the registered observers and fans out to them in
// attachment order.
//
// Fan-out is synchronous and not isolated: the first observer error aborts
// the remaining notifications and is returned to the caller. The mutation
// that triggered the notification stays committed either way.
type Notifier struct {
	observers []Observer
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Attach registers an observer. Attaching the same observer twice is a
// no-op; the first attachment position is kept.
func (n *Notifier) Attach(o Observer) {
	for _, existing := range n.observers {
		if existing == o {
			return
		}
	}
	n.observers = append(n.observers, o)
}

// Detach removes an observer. Detaching an unknown observer is a no-op.
func (n *Notifier) Detach(o Observer) {
	for i, existing := range n.observers {
		if existing == o {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

// Notify invokes each observer's Update in attachment order and stops at
// the first error.
func (n *Notifier) Notify() error {
	for _, o := range n.observers {
		if err := o.Update(); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of attached observers.
func (n *Notifier) Len() int {
	return len(n.observers)
}
