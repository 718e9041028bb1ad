// Package seed populates a store with initial books before the catalog takes traffic.
package seed

import (
	"github.com/pkg/errors"

	"github.com/ASHISH26940/shelfdb/internal/book"
)

// Saver is the write side of a store.
type Saver interface {
	Save(b *book.Book) (book.Book, error)
}

// Initializer fills a store with data.
type Initializer func(s Saver) error

// SampleBooks are the books loaded by Sample.
var SampleBooks = []book.Book{
	{Title: "1984", Author: "George Orwell", Year: 1949},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Year: 1951},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Year: 1937},
	{Title: "Frankenstein", Author: "Mary Shelley", Year: 1818},
	{Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Year: 1954},
}

// Sample saves SampleBooks into s.
func Sample(s Saver) error {
	for i := range SampleBooks {
		b := SampleBooks[i]
		if _, err := s.Save(&b); err != nil {
			return errors.Wrapf(err, "seed %q", b.Title)
		}
	}
	return nil
}

// Run applies init to s. A nil initializer is a no-op.
func Run(s Saver, init Initializer) error {
	if init == nil {
		return nil
	}
	return init(s)
}
