package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dkarpov/bookstore/internal/catalog"
	"github.com/dkarpov/bookstore/pkg/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticReader serves a fixed catalog snapshot.
type staticReader struct {
	books []catalog.BookRecord
}

func (r *staticReader) ListBooks(_ context.Context) []catalog.BookRecord {
	return r.books
}

// capturingPublisher records published events.
type capturingPublisher struct {
	events []messaging.Event
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, event messaging.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func Test_EventPublisher_PublishesCatalogSummary(t *testing.T) {
	reader := &staticReader{books: []catalog.BookRecord{
		{Title: "Dune", Quantity: 5},
		{Title: "Hyperion", Quantity: 2},
	}}
	publisher := &capturingPublisher{}
	observer := NewEventPublisher(reader, publisher, "bookstore.test.changed", time.Second)

	require.NoError(t, observer.Update())

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, "bookstore.test.changed", event.Subject())

	payload, err := event.Payload()
	require.NoError(t, err)
	var decoded InventoryChangedEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, 2, decoded.TitleCount)
	assert.Equal(t, int64(7), decoded.TotalUnits)
	assert.NotEqual(t, uuid.Nil, decoded.EventID)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func Test_EventPublisher_DefaultSubject(t *testing.T) {
	event := InventoryChangedEvent{}
	assert.Equal(t, messaging.InventorySubject, event.Subject())
}

func Test_StockLogger_ReadsThroughQueryInterface(t *testing.T) {
	reader := &staticReader{books: []catalog.BookRecord{{Title: "Dune", Quantity: 5}}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	observer := NewStockLogger(reader, logger)

	assert.NoError(t, observer.Update())
}
