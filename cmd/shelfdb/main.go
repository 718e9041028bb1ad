// Package main is the entry point for the shelfdb catalog server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ASHISH26940/shelfdb/internal/catalog"
	"github.com/ASHISH26940/shelfdb/internal/config"
	shelfraft "github.com/ASHISH26940/shelfdb/internal/raft"
	"github.com/ASHISH26940/shelfdb/internal/seed"
	"github.com/ASHISH26940/shelfdb/internal/server"
	"github.com/ASHISH26940/shelfdb/internal/store"
)

const (
	shutdownTimeout = 5 * time.Second
	leaderTimeout   = 30 * time.Second
)

func main() {
	// --- Configuration and Flags ---
	configFile := flag.String("config", "config.toml", "Path to config file")
	bootstrap := flag.Bool("bootstrap", false, "Bootstrap the cluster (run on the first node only)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()
	if err := cfg.Load(*configFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("Failed to load config: %v", err)
		}
		log.Printf("Config file %s not found, using defaults", *configFile)
	}
	if err := cfg.LoadEnv(); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, *bootstrap, logger); err != nil {
		logger.Fatal("shelfdb stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg *config.Config, bootstrap bool, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Initialize Store ---
	local := store.NewStore()
	var (
		backend catalog.Store = local
		cluster server.Cluster
	)

	// --- Optional Raft replication ---
	if cfg.Replicated {
		node, err := shelfraft.NewNode(shelfraft.Config{
			NodeID:    cfg.NodeID,
			BindAddr:  fmt.Sprintf("%s:%d", cfg.Host, cfg.RaftPort),
			Bootstrap: bootstrap,
		}, local, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := node.Shutdown(); err != nil {
				logger.Error("raft shutdown failed", zap.Error(err))
			}
		}()
		backend, cluster = node, node

		if bootstrap {
			waitCtx, waitCancel := context.WithTimeout(ctx, leaderTimeout)
			err := node.WaitForLeader(waitCtx)
			waitCancel()
			if err != nil {
				return err
			}
		}
	}

	// --- Seed sample data before taking traffic ---
	// Followers receive the seeded books through the log.
	if cfg.Seed && (!cfg.Replicated || bootstrap) {
		if err := seed.Run(backend, seed.Sample); err != nil {
			return errors.Wrap(err, "seed catalog")
		}
		logger.Info("seeded catalog", zap.Int("books", backend.Count()))
	}

	svc := catalog.New(logger, backend, catalog.WithSuggestDistance(cfg.SuggestDistance))

	// --- Start the HTTP Server ---
	httpAddr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:           httpAddr,
		Handler:        server.New(svc, cluster, logger),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", httpAddr), zap.Bool("replicated", cfg.Replicated))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	logger.Info("server exited")
	return nil
}
