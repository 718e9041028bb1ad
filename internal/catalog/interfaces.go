package catalog

import "github.com/ASHISH26940/shelfdb/internal/book"

// Store is the storage layer the catalog delegates to.
//
//go:generate mockgen -source=interfaces.go -destination=./mocks/store_mock.go -package=mocks
type Store interface {
	FindAll() []book.Book
	FindByTitle(title string) (book.Book, bool)
	Save(b *book.Book) (book.Book, error)
	Count() int
	DeleteByTitle(title string) (bool, error)
}
