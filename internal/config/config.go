// Package config handles loading and parsing the application's configuration.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Environment variables that override file settings.
const (
	EnvNodeID          = "SHELFDB_NODE_ID"
	EnvHost            = "SHELFDB_HOST"
	EnvPort            = "SHELFDB_PORT"
	EnvRaftPort        = "SHELFDB_RAFT_PORT"
	EnvReplicated      = "SHELFDB_REPLICATED"
	EnvSeed            = "SHELFDB_SEED"
	EnvSuggestDistance = "SHELFDB_SUGGEST_DISTANCE"
	EnvEnvironment     = "ENV"
)

// Config holds all configuration for the application.
// We use struct tags to explicitly map TOML keys to struct fields.
type Config struct {
	NodeID          string `toml:"node_id"`   // Unique ID for the node in a replicated cluster
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	RaftPort        int    `toml:"raft_port"`  // Port for Raft's internal communication
	Replicated      bool   `toml:"replicated"` // Commit writes through Raft
	Seed            bool   `toml:"seed"`       // Load the sample books at startup
	SuggestDistance int    `toml:"suggest_distance"`
	Environment     string `toml:"environment"`
}

// New returns a new Config with default values.
func New() *Config {
	return &Config{
		NodeID:          "node1",
		Host:            "localhost",
		Port:            8080,
		RaftPort:        9080,
		Replicated:      false,
		Seed:            true,
		SuggestDistance: 3,
		Environment:     "development",
	}
}

// Load reads a configuration file from the given path and populates the Config struct.
func (c *Config) Load(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return errors.Wrapf(err, "load config %s", path)
	}
	return nil
}

// LoadEnv overrides fields with any SHELFDB_* variables present in the environment.
func (c *Config) LoadEnv() error {
	if v, ok := os.LookupEnv(EnvNodeID); ok {
		c.NodeID = v
	}
	if v, ok := os.LookupEnv(EnvHost); ok {
		c.Host = v
	}
	if v, ok := os.LookupEnv(EnvEnvironment); ok {
		c.Environment = v
	}

	var err error
	if c.Port, err = intEnv(EnvPort, c.Port); err != nil {
		return err
	}
	if c.RaftPort, err = intEnv(EnvRaftPort, c.RaftPort); err != nil {
		return err
	}
	if c.SuggestDistance, err = intEnv(EnvSuggestDistance, c.SuggestDistance); err != nil {
		return err
	}
	if c.Replicated, err = boolEnv(EnvReplicated, c.Replicated); err != nil {
		return err
	}
	if c.Seed, err = boolEnv(EnvSeed, c.Seed); err != nil {
		return err
	}
	return nil
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func intEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, errors.Wrapf(err, "parse %s", key)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, errors.Wrapf(err, "parse %s", key)
	}
	return b, nil
}
