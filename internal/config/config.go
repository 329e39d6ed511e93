// Package config carries process-wide defaults: where the daemon
// listens, where idb keeps its state, and how chatty logging is.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultDaemonHost = "localhost"
	DefaultDaemonPort = 9889
)

type Config struct {
	DaemonHost string
	DaemonPort int
	Home       string
	LogLevel   string
}

// Load reads defaults, an optional .env file, and IDB_* environment
// variables, in that order.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DaemonHost: DefaultDaemonHost,
		DaemonPort: DefaultDaemonPort,
		LogLevel:   "info",
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg.Home = filepath.Join(home, ".idb")

	if v := os.Getenv("IDB_DAEMON_HOST"); v != "" {
		cfg.DaemonHost = v
	}
	if v := os.Getenv("IDB_DAEMON_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DaemonPort = port
		}
	}
	if v := os.Getenv("IDB_HOME"); v != "" {
		cfg.Home = v
	}
	if v := os.Getenv("IDB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}

func (c Config) RegistryPath() string {
	return filepath.Join(c.Home, "companions.sqlite3")
}

func (c Config) PidFilePath() string {
	return filepath.Join(c.Home, "daemon.pids")
}

func (c Config) LogDir() string {
	return filepath.Join(c.Home, "logs")
}

// EnsureHome creates the idb state directory tree.
func (c Config) EnsureHome() error {
	return os.MkdirAll(c.LogDir(), 0755)
}
