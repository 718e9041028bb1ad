package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestConfig_Load(t *testing.T) {
	// Create a temporary directory for our test config files
	tempDir := t.TempDir()

	// --- Test Case 1: Valid configuration file ---
	validToml := `
node_id = "node7"
host = "127.0.0.1"
port = 9000
replicated = true
seed = false
suggest_distance = 2
`
	validPath := filepath.Join(tempDir, "valid.toml")
	if err := os.WriteFile(validPath, []byte(validToml), 0644); err != nil {
		t.Fatalf("failed to write valid config file: %v", err)
	}

	cfg := New()
	err := cfg.Load(validPath)
	if err != nil {
		t.Fatalf("expected no error loading valid config, but got: %v", err)
	}

	if cfg.NodeID != "node7" {
		t.Errorf("expected node_id to be 'node7', but got '%s'", cfg.NodeID)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected host to be '127.0.0.1', but got '%s'", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port to be 9000, but got %d", cfg.Port)
	}
	if !cfg.Replicated || cfg.Seed {
		t.Errorf("expected replicated=true seed=false, got replicated=%t seed=%t", cfg.Replicated, cfg.Seed)
	}
	if cfg.SuggestDistance != 2 {
		t.Errorf("expected suggest_distance to be 2, but got %d", cfg.SuggestDistance)
	}
	// Keys absent from the file keep their defaults
	if cfg.RaftPort != 9080 {
		t.Errorf("expected default raft_port 9080, but got %d", cfg.RaftPort)
	}

	// --- Test Case 2: File does not exist ---
	cfg2 := New()
	err = cfg2.Load(filepath.Join(tempDir, "nonexistent.toml"))
	if err == nil {
		t.Fatal("expected an error for non-existent file, but got none")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist, got: %v", err)
	}

	// --- Test Case 3: Invalid TOML format ---
	invalidToml := `host = 127.0.0.1` // Invalid: host should be a string
	invalidPath := filepath.Join(tempDir, "invalid.toml")
	if err := os.WriteFile(invalidPath, []byte(invalidToml), 0644); err != nil {
		t.Fatalf("failed to write invalid config file: %v", err)
	}

	cfg3 := New()
	err = cfg3.Load(invalidPath)
	if err == nil {
		t.Fatal("expected an error for invalid TOML, but got none")
	}
}

func TestConfig_LoadEnv(t *testing.T) {
	t.Setenv(EnvPort, "9999")
	t.Setenv(EnvReplicated, "true")
	t.Setenv(EnvSeed, "false")
	t.Setenv(EnvNodeID, "env-node")
	t.Setenv(EnvEnvironment, "production")

	cfg := New()
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Port)
	}
	if !cfg.Replicated || cfg.Seed {
		t.Errorf("expected replicated=true seed=false, got replicated=%t seed=%t", cfg.Replicated, cfg.Seed)
	}
	if cfg.NodeID != "env-node" {
		t.Errorf("expected node id 'env-node', got '%s'", cfg.NodeID)
	}
	if !cfg.IsProduction() {
		t.Errorf("expected production environment")
	}
	if cfg.Host != "localhost" {
		t.Errorf("expected host default to survive, got '%s'", cfg.Host)
	}
}

func TestConfig_LoadEnvInvalid(t *testing.T) {
	t.Setenv(EnvRaftPort, "not-a-port")

	cfg := New()
	if err := cfg.LoadEnv(); err == nil {
		t.Fatal("expected an error for a non-numeric raft port, but got none")
	}
}
