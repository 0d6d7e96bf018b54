// Package errors provides the error kinds shared across the inventory
// service and its facades.
package errors

import "errors"

var (
	// ErrInvalidArgument signals a rejected input (bad title, price or
	// quantity). The catalog is never mutated when it is returned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidQuantity signals a quantity delta that would drive a
	// record's quantity negative.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrBookNotFound signals a lookup for a title that is not in the
	// catalog. Quantity reads treat absence as zero instead.
	ErrBookNotFound = errors.New("book not found")

	// ErrPersistence wraps failures of the persistence port. The mutation
	// that triggered the write is rolled back before it is returned.
	ErrPersistence = errors.New("persistence failure")
)
