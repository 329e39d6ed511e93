package cli

import (
	"fmt"

	"github.com/boot85/idb/internal/client"
	"github.com/boot85/idb/internal/companion"
	"github.com/boot85/idb/internal/config"
	"github.com/boot85/idb/internal/daemon"
	"github.com/boot85/idb/internal/logger"
	"github.com/boot85/idb/internal/store"
)

func loadConfig() config.Config {
	cfg := config.Load()
	if flagDaemonHost != "" {
		cfg.DaemonHost = flagDaemonHost
	}
	if flagDaemonPort != 0 {
		cfg.DaemonPort = flagDaemonPort
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg
}

func openRegistry(cfg config.Config) (*store.CompanionStore, error) {
	if err := cfg.EnsureHome(); err != nil {
		return nil, fmt.Errorf("creating idb home: %w", err)
	}
	db, err := store.Open(cfg.RegistryPath())
	if err != nil {
		return nil, fmt.Errorf("opening companion registry: %w", err)
	}
	return store.NewCompanionStore(db), nil
}

// newFacade wires the full client stack: config, registry, resolver,
// spawner and facade.
func newFacade() (*client.Client, error) {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel)

	registry, err := openRegistry(cfg)
	if err != nil {
		return nil, err
	}

	pidFile := daemon.NewPidFile(cfg.PidFilePath())
	spawner := daemon.NewSpawner(cfg.DaemonHost, cfg.DaemonPort, pidFile, log)

	c := client.New(client.Options{
		Host:               cfg.DaemonHost,
		Port:               cfg.DaemonPort,
		TargetUDID:         flagUDID,
		ForceRestartDaemon: flagForceRestart,
		Logger:             log,
		Spawner:            spawner,
		Resolver:           companion.NewResolver(registry, log),
	})
	return c, nil
}
