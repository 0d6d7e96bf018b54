package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkarpov/bookstore/pkg/messaging"
	"github.com/google/uuid"
)

// StockLogger logs a catalog summary on every inventory change.
type StockLogger struct {
	reader CatalogReader
	logger *slog.Logger
}

func NewStockLogger(reader CatalogReader, logger *slog.Logger) *StockLogger {
	return &StockLogger{
		reader: reader,
		logger: logger.With("component", "stock_logger"),
	}
}

func (s *StockLogger) Update() error {
	books := s.reader.ListBooks(context.Background())
	var units int64
	for _, b := range books {
		units += b.Quantity
	}
	s.logger.Info("Inventory changed", "titles", len(books), "total_units", units)
	return nil
}

// EventPublisher mirrors inventory changes onto a broker subject so
// out-of-process consumers can follow stock levels.
type EventPublisher struct {
	reader    CatalogReader
	publisher messaging.Publisher
	subject   string
	timeout   time.Duration
}

func NewEventPublisher(reader CatalogReader, publisher messaging.Publisher, subject string, timeout time.Duration) *EventPublisher {
	return &EventPublisher{
		reader:    reader,
		publisher: publisher,
		subject:   subject,
		timeout:   timeout,
	}
}

func (p *EventPublisher) Update() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	books := p.reader.ListBooks(ctx)
	var units int64
	for _, b := range books {
		units += b.Quantity
	}
	event := InventoryChangedEvent{
		EventID:    uuid.New(),
		TitleCount: len(books),
		TotalUnits: units,
		OccurredAt: time.Now().UTC(),
		subject:    p.subject,
	}
	return p.publisher.Publish(ctx, event)
}
