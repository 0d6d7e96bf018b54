package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dkarpov/bookstore/internal/catalog"
)

var csvHeader = []string{"Title", "Author", "Publisher", "Price", "Quantity"}

// FileStore persists the catalog as a CSV file with a fixed
// [Title, Author, Publisher, Price, Quantity] header row.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the whole file. A missing file is reported as an error; there
// is deliberately no existence check or implicit empty catalog.
func (f *FileStore) Load(_ context.Context) ([]catalog.BookRecord, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", f.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", f.path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog file %s has no header row", f.path)
	}

	records := make([]catalog.BookRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		price, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad price %q: %w", i+2, row[3], err)
		}
		quantity, err := strconv.ParseInt(row[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad quantity %q: %w", i+2, row[4], err)
		}
		records = append(records, catalog.BookRecord{
			Title:     row[0],
			Author:    row[1],
			Publisher: row[2],
			Price:     price,
			Quantity:  quantity,
		})
	}
	return records, nil
}

// Save rewrites the file in full. The write goes to a temp file in the same
// directory which is renamed over the target, so a crash mid-write never
// leaves a truncated catalog behind.
func (f *FileStore) Save(_ context.Context, records []catalog.BookRecord) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Title,
			r.Author,
			r.Publisher,
			strconv.FormatInt(r.Price, 10),
			strconv.FormatInt(r.Quantity, 10),
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write catalog row for %q: %w", r.Title, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush catalog file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp catalog file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace catalog file %s: %w", f.path, err)
	}
	return nil
}
