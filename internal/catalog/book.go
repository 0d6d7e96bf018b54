// Package catalog holds the in-memory book catalog: the table of book
// records keyed by title that every inventory operation mutates.
package catalog

// BookRecord is a single catalog row. Title is the unique key; Price is in
// cents. Quantity never goes negative.
type BookRecord struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}
