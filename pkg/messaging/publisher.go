// Package messaging defines the event publishing contract used by the
// inventory change observers.
package messaging

import "context"

// InventorySubject is the default subject inventory change events are
// published on.
const InventorySubject = "bookstore.inventory.changed"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
