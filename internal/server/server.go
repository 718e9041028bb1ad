// Package server handles the HTTP API for the book catalog.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ASHISH26940/shelfdb/internal/book"
	shelfraft "github.com/ASHISH26940/shelfdb/internal/raft"
)

const serviceName = "shelfdb"

// Catalog is the business layer the server exposes over HTTP.
type Catalog interface {
	ListBooks() []book.Book
	GetBook(title string) (book.Book, bool)
	AddBook(b *book.Book) (book.Book, error)
	CountBooks() int
	RemoveBook(title string) error
	SuggestTitles(title string) []string
}

// Cluster is implemented by replicated nodes that accept new members.
type Cluster interface {
	Join(nodeID, addr string) error
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status      int      `json:"status"`
	Error       string   `json:"error"`
	Message     string   `json:"message"`
	Path        string   `json:"path"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Books   int    `json:"books"`
	Time    string `json:"time"`
}

// JoinRequest is the body of POST /join.
type JoinRequest struct {
	NodeID string `json:"node_id" binding:"required"`
	Addr   string `json:"addr" binding:"required"`
}

// Server is the HTTP server for the catalog.
type Server struct {
	catalog Catalog
	cluster Cluster
	logger  *zap.Logger
	router  *gin.Engine
}

// New creates a new Server. cluster may be nil when the node runs standalone.
func New(catalog Catalog, cluster Cluster, logger *zap.Logger) *Server {
	s := &Server{
		catalog: catalog,
		cluster: cluster,
		logger:  logger,
		router:  gin.New(),
	}
	s.registerRoutes()
	return s
}

// ServeHTTP makes our Server a standard http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.Use(requestID())
	s.router.Use(requestLogger(s.logger))
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	s.router.GET("/health", s.handleHealth)

	books := s.router.Group("/books")
	{
		books.GET("", s.handleListBooks)
		books.POST("", s.handleAddBook)
		books.GET("/:title", s.handleGetBook)
		books.DELETE("/:title", s.handleDeleteBook)
	}

	if s.cluster != nil {
		s.router.POST("/join", s.handleJoin)
	}
}

// handleHealth reports liveness and the current number of books.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Books:   s.catalog.CountBooks(),
		Time:    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListBooks(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.ListBooks())
}

// handleGetBook serves a single book. A miss carries title suggestions.
func (s *Server) handleGetBook(c *gin.Context) {
	title := c.Param("title")
	b, ok := s.catalog.GetBook(title)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Status:      http.StatusNotFound,
			Error:       http.StatusText(http.StatusNotFound),
			Message:     book.NewNotFoundError(title).Error(),
			Path:        c.Request.URL.Path,
			Suggestions: s.catalog.SuggestTitles(title),
		})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleAddBook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.writeError(c, book.NewInvalidArgumentError("invalid request body"))
		return
	}

	// Decoded into a pointer so a JSON null reaches the catalog as an absent book.
	var b *book.Book
	if err := json.Unmarshal(body, &b); err != nil {
		s.writeError(c, book.NewInvalidArgumentError("invalid request body"))
		return
	}

	saved, err := s.catalog.AddBook(b)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleDeleteBook(c *gin.Context) {
	if err := s.catalog.RemoveBook(c.Param("title")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleJoin adds a new node to the Raft cluster.
func (s *Server) handleJoin(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, book.NewInvalidArgumentError("missing node_id or addr in join request"))
		return
	}

	s.logger.Info("received join request", zap.String("node_id", req.NodeID), zap.String("addr", req.Addr))
	if err := s.cluster.Join(req.NodeID, req.Addr); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// writeError maps an error kind to a status code and writes an ErrorResponse.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case book.IsInvalidArgument(err):
		status = http.StatusBadRequest
	case book.IsNotFound(err):
		status = http.StatusNotFound
	case shelfraft.IsNotLeader(err):
		status = http.StatusForbidden
	default:
		s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	c.JSON(status, ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: err.Error(),
		Path:    c.Request.URL.Path,
	})
}
