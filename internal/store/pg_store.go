package store

import (
	"context"
	"fmt"

	"github.com/dkarpov/bookstore/internal/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore persists the catalog in a PostgreSQL table. Save is a full
// replace inside one transaction, mirroring the file adapter's
// overwrite-in-full contract; position keeps the catalog's insertion order
// stable across round trips.
type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (p *PgStore) Load(ctx context.Context) ([]catalog.BookRecord, error) {
	rows, err := p.db.Query(ctx,
		`SELECT title, author, publisher, price, quantity FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var records []catalog.BookRecord
	for rows.Next() {
		var r catalog.BookRecord
		if err := rows.Scan(&r.Title, &r.Author, &r.Publisher, &r.Price, &r.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}
	return records, nil
}

func (p *PgStore) Save(ctx context.Context, records []catalog.BookRecord) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("failed to clear books table: %w", err)
	}

	batch := &pgx.Batch{}
	for i, r := range records {
		batch.Queue(
			`INSERT INTO books (position, title, author, publisher, price, quantity) VALUES ($1, $2, $3, $4, $5, $6)`,
			i, r.Title, r.Author, r.Publisher, r.Price, r.Quantity)
	}
	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert book row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit books: %w", err)
	}
	return nil
}
