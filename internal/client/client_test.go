package client

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/ASHISH26940/shelfdb/internal/book"
	"github.com/ASHISH26940/shelfdb/internal/catalog"
	"github.com/ASHISH26940/shelfdb/internal/catalog/mocks"
	shelfraft "github.com/ASHISH26940/shelfdb/internal/raft"
	"github.com/ASHISH26940/shelfdb/internal/server"
	"github.com/ASHISH26940/shelfdb/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestClient(t *testing.T, st catalog.Store) *Client {
	t.Helper()
	ts := httptest.NewServer(server.New(catalog.New(zap.NewNop(), st), nil, zap.NewNop()))
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestClient_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, store.NewStore())
	orwell := book.Book{Title: "1984", Author: "Orwell", Year: 1949}

	count, err := c.CountBooks(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	added, err := c.AddBook(ctx, &orwell)
	require.NoError(t, err)
	require.Equal(t, orwell, added)

	count, err = c.CountBooks(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	got, ok, err := c.GetBook(ctx, "1984")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, orwell, got)

	require.NoError(t, c.RemoveBook(ctx, "1984"))

	_, ok, err = c.GetBook(ctx, "1984")
	require.NoError(t, err)
	require.False(t, ok)

	err = c.RemoveBook(ctx, "1984")
	require.True(t, book.IsNotFound(err))
	require.Equal(t, "book with title '1984' not found", err.Error())
}

func TestClient_ListBooksOrdered(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, store.NewStore())

	for _, title := range []string{"banana", "Apple", "cherry", "The Hobbit"} {
		_, err := c.AddBook(ctx, &book.Book{Title: title, Author: "someone", Year: 2000})
		require.NoError(t, err)
	}

	books, err := c.ListBooks(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}
	require.Equal(t, []string{"Apple", "banana", "cherry", "The Hobbit"}, titles)

	got, ok, err := c.GetBook(ctx, "  the hobbit ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "The Hobbit", got.Title)
}

func TestClient_ErrorKinds(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, store.NewStore())

	_, err := c.AddBook(ctx, nil)
	require.True(t, book.IsInvalidArgument(err))
	require.Equal(t, "book cannot be null", err.Error())

	_, err = c.AddBook(ctx, &book.Book{Title: "Emma", Author: "Jane Austen", Year: 0})
	require.True(t, book.IsInvalidArgument(err))
	require.Equal(t, "book year must be positive", err.Error())

	for _, title := range []string{"", "   ", "\t"} {
		err = c.RemoveBook(ctx, title)
		require.True(t, book.IsInvalidArgument(err), "title %q", title)
		require.Equal(t, "book title is required", err.Error())
	}
}

func TestClient_GetBookBlankTitle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, store.NewStore())

	_, err := c.AddBook(ctx, &book.Book{Title: "1984", Author: "George Orwell", Year: 1949})
	require.NoError(t, err)

	for _, title := range []string{"", "   "} {
		got, ok, err := c.GetBook(ctx, title)
		require.NoError(t, err, "title %q", title)
		require.False(t, ok)
		require.Equal(t, book.Book{}, got)
	}
}

func TestClient_NotLeader(t *testing.T) {
	controller := gomock.NewController(t)
	repo := mocks.NewMockStore(controller)
	c := newTestClient(t, repo)

	repo.EXPECT().Save(gomock.Any()).Return(book.Book{}, &shelfraft.NotLeaderError{RaftAddr: "10.0.0.2:9080"}).Times(1)

	_, err := c.AddBook(context.Background(), &book.Book{Title: "Dune", Author: "Frank Herbert", Year: 1965})
	require.True(t, shelfraft.IsNotLeader(err))

	var notLeader *shelfraft.NotLeaderError
	require.ErrorAs(t, err, &notLeader)
	require.Equal(t, "10.0.0.2:9080", notLeader.RaftAddr)
}
