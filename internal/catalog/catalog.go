// Package catalog validates catalog requests and delegates them to a Store.
package catalog

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ASHISH26940/shelfdb/internal/book"
)

// DefaultSuggestDistance is the edit distance used by SuggestTitles when none is configured.
const DefaultSuggestDistance = 3

// Service is the catalog's business layer. It holds no mutable state.
type Service struct {
	logger          *zap.Logger
	store           Store
	validate        *validator.Validate
	suggestDistance int
}

// Option customizes a Service.
type Option func(*Service)

// WithSuggestDistance sets the maximum edit distance for title suggestions.
func WithSuggestDistance(d int) Option {
	return func(s *Service) {
		if d > 0 {
			s.suggestDistance = d
		}
	}
}

// New creates a Service backed by store.
func New(logger *zap.Logger, store Store, opts ...Option) *Service {
	s := &Service{
		logger:          logger,
		store:           store,
		validate:        newValidator(),
		suggestDistance: DefaultSuggestDistance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBooks returns all books ordered by title.
func (s *Service) ListBooks() []book.Book {
	return s.store.FindAll()
}

// GetBook looks a book up by title. Malformed titles are a miss.
func (s *Service) GetBook(title string) (book.Book, bool) {
	return s.store.FindByTitle(title)
}

// AddBook validates b and saves it, replacing any book with the same normalized title.
func (s *Service) AddBook(b *book.Book) (book.Book, error) {
	if err := s.validateBook(b); err != nil {
		s.logger.Warn("rejected book", zap.Error(err))
		return book.Book{}, err
	}

	saved, err := s.store.Save(b)
	if err != nil {
		return book.Book{}, errors.WithMessage(err, "save book")
	}

	s.logger.Info("book saved",
		zap.String("title", saved.Title),
		zap.String("author", saved.Author),
		zap.Int("year", saved.Year))
	return saved, nil
}

// CountBooks returns the number of stored books.
func (s *Service) CountBooks() int {
	return s.store.Count()
}

// RemoveBook deletes the book with the given title.
// A blank title is an InvalidArgumentError; a missing book is a NotFoundError.
func (s *Service) RemoveBook(title string) error {
	if book.IsBlank(title) {
		return book.NewInvalidArgumentError(msgTitleRequired)
	}

	deleted, err := s.store.DeleteByTitle(title)
	if err != nil {
		return errors.WithMessage(err, "delete book")
	}
	if !deleted {
		return book.NewNotFoundError(title)
	}

	s.logger.Info("book removed", zap.String("title", title))
	return nil
}
