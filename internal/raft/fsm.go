// Package raft replicates catalog writes across nodes with the Raft consensus protocol.
package raft

import (
	"encoding/json"
	"io"

	"github.com/hashicorp/raft"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ASHISH26940/shelfdb/internal/book"
)

const (
	opSave   = "SAVE"
	opDelete = "DELETE"
)

// DataStore is the interface our FSM needs to interact with the storage layer.
type DataStore interface {
	FindAll() []book.Book
	FindByTitle(title string) (book.Book, bool)
	Save(b *book.Book) (book.Book, error)
	Count() int
	DeleteByTitle(title string) (bool, error)
	Reset(books []book.Book)
}

// Command is a single write committed to the Raft log.
type Command struct {
	Op    string     `json:"op"`
	Title string     `json:"title,omitempty"`
	Book  *book.Book `json:"book,omitempty"`
}

// ApplyResult is what FSM.Apply returns for every committed command.
type ApplyResult struct {
	Book    book.Book
	Deleted bool
	Err     error
}

// FSM is a Finite State Machine that applies Raft logs to the book store.
type FSM struct {
	store  DataStore
	logger *zap.Logger
}

// NewFSM creates a new FSM over the given data store.
func NewFSM(store DataStore, logger *zap.Logger) *FSM {
	return &FSM{
		store:  store,
		logger: logger,
	}
}

// Apply applies a Raft log entry to the book store.
func (f *FSM) Apply(logEntry *raft.Log) interface{} {
	var cmd Command
	if err := json.Unmarshal(logEntry.Data, &cmd); err != nil {
		f.logger.Error("failed to decode command", zap.Uint64("index", logEntry.Index), zap.Error(err))
		return ApplyResult{Err: errors.Wrap(err, "decode command")}
	}

	f.logger.Debug("applying command", zap.String("op", cmd.Op), zap.Uint64("index", logEntry.Index))

	switch cmd.Op {
	case opSave:
		saved, err := f.store.Save(cmd.Book)
		return ApplyResult{Book: saved, Err: err}
	case opDelete:
		deleted, err := f.store.DeleteByTitle(cmd.Title)
		return ApplyResult{Deleted: deleted, Err: err}
	default:
		f.logger.Warn("unrecognized command", zap.String("op", cmd.Op))
		return ApplyResult{Err: errors.Errorf("unrecognized command op %q", cmd.Op)}
	}
}

// Snapshot captures every stored book for log compaction.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	return &snapshot{books: f.store.FindAll()}, nil
}

// Restore replaces the store contents with a snapshot written by Persist.
func (f *FSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var books []book.Book
	if err := json.NewDecoder(rc).Decode(&books); err != nil {
		return errors.Wrap(err, "decode snapshot")
	}
	f.store.Reset(books)
	f.logger.Info("restored snapshot", zap.Int("books", len(books)))
	return nil
}

type snapshot struct {
	books []book.Book
}

func (s *snapshot) Persist(sink raft.SnapshotSink) error {
	if err := json.NewEncoder(sink).Encode(s.books); err != nil {
		_ = sink.Cancel()
		return errors.Wrap(err, "encode snapshot")
	}
	return sink.Close()
}

func (s *snapshot) Release() {}
