package raft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/hashicorp/raft"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ASHISH26940/shelfdb/internal/book"
)

const (
	defaultApplyTimeout = 5 * time.Second
	transportPool       = 3
	transportTimeout    = 10 * time.Second
)

// NotLeaderError is returned when a write reaches a node that is not the leader.
type NotLeaderError struct {
	// RaftAddr is the leader's Raft transport address (host:raft_port), not its
	// HTTP address.
	RaftAddr string
}

func (e *NotLeaderError) Error() string {
	if e.RaftAddr == "" {
		return "not the leader and no leader is known"
	}
	return fmt.Sprintf("writes must be sent to the leader (raft address %s)", e.RaftAddr)
}

// IsNotLeader reports whether err is a NotLeaderError (even when wrapped).
func IsNotLeader(err error) bool {
	var target *NotLeaderError
	return errors.As(err, &target)
}

// Config describes a single node.
type Config struct {
	NodeID string
	// BindAddr is the TCP address for Raft traffic. Empty selects an in-memory transport.
	BindAddr     string
	Bootstrap    bool
	ApplyTimeout time.Duration
	// HeartbeatTimeout overrides the Raft heartbeat, election and lease timeouts when set.
	HeartbeatTimeout time.Duration
}

// Node is a Raft member that serves reads from its local store and commits
// writes through the Raft log. It satisfies catalog.Store.
type Node struct {
	raft    *raft.Raft
	local   DataStore
	timeout time.Duration
	logger  *zap.Logger
}

// NewNode starts a Raft node whose FSM applies to local.
func NewNode(cfg Config, local DataStore, logger *zap.Logger) (*Node, error) {
	raftConfig := raft.DefaultConfig()
	raftConfig.LocalID = raft.ServerID(cfg.NodeID)
	raftConfig.LogOutput = zap.NewStdLog(logger.Named("raft")).Writer()
	if cfg.HeartbeatTimeout > 0 {
		raftConfig.HeartbeatTimeout = cfg.HeartbeatTimeout
		raftConfig.ElectionTimeout = cfg.HeartbeatTimeout
		raftConfig.LeaderLeaseTimeout = cfg.HeartbeatTimeout
	}

	transport, err := newTransport(cfg, raftConfig.LogOutput)
	if err != nil {
		return nil, err
	}

	// Log, stable and snapshot state live in memory only.
	logs := raft.NewInmemStore()
	snapshots := raft.NewInmemSnapshotStore()

	r, err := raft.NewRaft(raftConfig, NewFSM(local, logger), logs, logs, snapshots, transport)
	if err != nil {
		return nil, errors.Wrap(err, "create raft node")
	}

	if cfg.Bootstrap {
		logger.Info("bootstrapping cluster", zap.String("node_id", cfg.NodeID))
		future := r.BootstrapCluster(raft.Configuration{
			Servers: []raft.Server{
				{
					ID:      raftConfig.LocalID,
					Address: transport.LocalAddr(),
				},
			},
		})
		if err := future.Error(); err != nil && !errors.Is(err, raft.ErrCantBootstrap) {
			_ = r.Shutdown().Error()
			return nil, errors.Wrap(err, "bootstrap cluster")
		}
	}

	timeout := cfg.ApplyTimeout
	if timeout <= 0 {
		timeout = defaultApplyTimeout
	}

	return &Node{
		raft:    r,
		local:   local,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func newTransport(cfg Config, logOutput io.Writer) (raft.Transport, error) {
	if cfg.BindAddr == "" {
		_, transport := raft.NewInmemTransport(raft.ServerAddress(cfg.NodeID))
		return transport, nil
	}

	addr, err := net.ResolveTCPAddr("tcp", cfg.BindAddr)
	if err != nil {
		return nil, errors.Wrap(err, "resolve raft address")
	}
	transport, err := raft.NewTCPTransport(cfg.BindAddr, addr, transportPool, transportTimeout, logOutput)
	if err != nil {
		return nil, errors.Wrap(err, "create raft transport")
	}
	return transport, nil
}

// FindAll returns the local view of every book.
func (n *Node) FindAll() []book.Book {
	return n.local.FindAll()
}

// FindByTitle reads from the local store; followers may lag the leader.
func (n *Node) FindByTitle(title string) (book.Book, bool) {
	return n.local.FindByTitle(title)
}

// Count returns the local number of books.
func (n *Node) Count() int {
	return n.local.Count()
}

// Save commits a save command and returns the book as applied by the FSM.
func (n *Node) Save(b *book.Book) (book.Book, error) {
	if b == nil || book.IsBlank(b.Title) {
		return book.Book{}, book.NewInvalidArgumentError("book and title cannot be null or empty")
	}

	res, err := n.apply(Command{Op: opSave, Book: b})
	if err != nil {
		return book.Book{}, err
	}
	return res.Book, nil
}

// DeleteByTitle commits a delete command. Blank titles are not replicated.
func (n *Node) DeleteByTitle(title string) (bool, error) {
	if book.IsBlank(title) {
		return false, nil
	}

	res, err := n.apply(Command{Op: opDelete, Title: title})
	if err != nil {
		return false, err
	}
	return res.Deleted, nil
}

func (n *Node) apply(cmd Command) (ApplyResult, error) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return ApplyResult{}, errors.Wrap(err, "encode command")
	}

	// Blocks until the command is committed by a majority and applied to the FSM.
	future := n.raft.Apply(data, n.timeout)
	if err := future.Error(); err != nil {
		if errors.Is(err, raft.ErrNotLeader) {
			return ApplyResult{}, &NotLeaderError{RaftAddr: n.Leader()}
		}
		return ApplyResult{}, errors.Wrapf(err, "apply %s", cmd.Op)
	}

	res, ok := future.Response().(ApplyResult)
	if !ok {
		return ApplyResult{}, errors.Errorf("unexpected apply response %T", future.Response())
	}
	return res, res.Err
}

// IsLeader reports whether this node currently leads the cluster.
func (n *Node) IsLeader() bool {
	return n.raft.State() == raft.Leader
}

// Leader returns the Raft address of the current leader, or "" if none is known.
func (n *Node) Leader() string {
	addr, _ := n.raft.LeaderWithID()
	return string(addr)
}

// Join adds a voter to the cluster. Only the leader can do this.
func (n *Node) Join(nodeID, addr string) error {
	if !n.IsLeader() {
		return &NotLeaderError{RaftAddr: n.Leader()}
	}

	n.logger.Info("adding voter", zap.String("node_id", nodeID), zap.String("addr", addr))
	future := n.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(addr), 0, 0)
	if err := future.Error(); err != nil {
		return errors.Wrapf(err, "add voter %s", nodeID)
	}
	return nil
}

// WaitForLeader blocks until the cluster has elected a leader or ctx is done.
func (n *Node) WaitForLeader(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if n.Leader() != "" {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "wait for leader")
		case <-ticker.C:
		}
	}
}

// Shutdown stops the Raft node.
func (n *Node) Shutdown() error {
	return n.raft.Shutdown().Error()
}
