// Package store contains the in-memory book store.
// It is designed to be thread-safe for concurrent access.
package store

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/ASHISH26940/shelfdb/internal/book"
)

// Store is a thread-safe in-memory collection of books keyed by normalized title.
type Store struct {
	mu    sync.RWMutex
	books map[string]book.Book
}

// NewStore initializes and returns a new empty Store.
func NewStore() *Store {
	return &Store{
		books: make(map[string]book.Book),
	}
}

// FindAll returns every stored book ordered case-insensitively by title.
func (s *Store) FindAll() []book.Book {
	s.mu.RLock()
	books := lo.Values(s.books)
	s.mu.RUnlock()

	slices.SortFunc(books, func(a, b book.Book) int {
		return book.CompareTitles(a.Title, b.Title)
	})
	return books
}

// FindByTitle looks a book up by title, ignoring case and surrounding whitespace.
// A blank title is a miss, not an error.
func (s *Store) FindByTitle(title string) (book.Book, bool) {
	if book.IsBlank(title) {
		return book.Book{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[book.Normalize(title)]
	return b, ok
}

// Save inserts b or replaces the book stored under the same normalized title.
func (s *Store) Save(b *book.Book) (book.Book, error) {
	if b == nil || book.IsBlank(b.Title) {
		return book.Book{}, book.NewInvalidArgumentError("book and title cannot be null or empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.Normalize(b.Title)] = *b
	return *b, nil
}

// Count returns the number of stored books.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// DeleteByTitle removes the book stored under title and reports whether one was removed.
// A blank title removes nothing. The error is always nil; it is part of the
// signature so replicated stores can satisfy the same interface.
func (s *Store) DeleteByTitle(title string) (bool, error) {
	if book.IsBlank(title) {
		return false, nil
	}

	key := book.Normalize(title)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[key]; !ok {
		return false, nil
	}
	delete(s.books, key)
	return true, nil
}

// Reset replaces the whole contents of the store with books.
// Books with a blank title are skipped.
func (s *Store) Reset(books []book.Book) {
	next := make(map[string]book.Book, len(books))
	for _, b := range books {
		if book.IsBlank(b.Title) {
			continue
		}
		next[book.Normalize(b.Title)] = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = next
}
