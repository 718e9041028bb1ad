// Package client is a typed HTTP client for the catalog API.
package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/ASHISH26940/shelfdb/internal/book"
	shelfraft "github.com/ASHISH26940/shelfdb/internal/raft"
	"github.com/ASHISH26940/shelfdb/internal/server"
)

const defaultTimeout = 10 * time.Second

// Client talks to a shelfdb server.
type Client struct {
	http *resty.Client
}

// New creates a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
	}
}

// ListBooks returns every book ordered by title.
func (c *Client) ListBooks(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&books).
		SetError(&server.ErrorResponse{}).
		Get("/books")
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}
	if resp.IsError() {
		return nil, responseError(resp, "")
	}
	return books, nil
}

// GetBook fetches a book by title. A missing book or a blank title is reported
// as found == false.
func (c *Client) GetBook(ctx context.Context, title string) (book.Book, bool, error) {
	// A blank path segment would address /books itself.
	if book.IsBlank(title) {
		return book.Book{}, false, nil
	}

	var b book.Book
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("title", title).
		SetResult(&b).
		SetError(&server.ErrorResponse{}).
		Get("/books/{title}")
	if err != nil {
		return book.Book{}, false, errors.Wrapf(err, "get book %q", title)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return book.Book{}, false, nil
	}
	if resp.IsError() {
		return book.Book{}, false, responseError(resp, title)
	}
	return b, true, nil
}

// AddBook creates or replaces a book.
func (c *Client) AddBook(ctx context.Context, b *book.Book) (book.Book, error) {
	var body any = b
	if b == nil {
		body = []byte("null")
	}

	var saved book.Book
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&saved).
		SetError(&server.ErrorResponse{}).
		Post("/books")
	if err != nil {
		return book.Book{}, errors.Wrap(err, "add book")
	}
	if resp.IsError() {
		return book.Book{}, responseError(resp, "")
	}
	return saved, nil
}

// RemoveBook deletes a book by title.
func (c *Client) RemoveBook(ctx context.Context, title string) error {
	if book.IsBlank(title) {
		return book.NewInvalidArgumentError("book title is required")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("title", title).
		SetError(&server.ErrorResponse{}).
		Delete("/books/{title}")
	if err != nil {
		return errors.Wrapf(err, "remove book %q", title)
	}
	if resp.IsError() {
		return responseError(resp, title)
	}
	return nil
}

// CountBooks returns the number of books the server holds.
func (c *Client) CountBooks(ctx context.Context) (int, error) {
	var health server.HealthResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")
	if err != nil {
		return 0, errors.Wrap(err, "count books")
	}
	if resp.IsError() {
		return 0, responseError(resp, "")
	}
	return health.Books, nil
}

// responseError converts an error response back into the matching error kind.
func responseError(resp *resty.Response, title string) error {
	message := resp.Status()
	if body, ok := resp.Error().(*server.ErrorResponse); ok && body.Message != "" {
		message = body.Message
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return book.NewInvalidArgumentError(message)
	case http.StatusNotFound:
		return book.NewNotFoundError(title)
	case http.StatusForbidden:
		return errors.WithStack(&shelfraft.NotLeaderError{RaftAddr: leaderFrom(message)})
	default:
		return errors.Errorf("unexpected status %d: %s", resp.StatusCode(), message)
	}
}

func leaderFrom(message string) string {
	_, rest, ok := strings.Cut(message, "(raft address ")
	if !ok {
		return ""
	}
	addr, _, _ := strings.Cut(rest, ")")
	return addr
}
