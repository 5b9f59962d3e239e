package book

import (
	"errors"
)

// ErrNotFound is returned when no book exists for a given id.
var ErrNotFound = errors.New("book not found")

// Book represents a book record. The id is assigned by the store on
// insert and never changes afterwards.
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"publishedYear"`
}
