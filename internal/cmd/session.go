package cmd

import (
	"fmt"

	"github.com/tang-vu/devboot/internal/config"
	"github.com/tang-vu/devboot/internal/event"
	"github.com/tang-vu/devboot/internal/logging"
	"github.com/tang-vu/devboot/internal/project"
	"github.com/tang-vu/devboot/internal/supervisor"
)

// session bundles the collaborators a supervision command needs.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	store  *project.Store
	bus    *event.Bus
	sup    *supervisor.Supervisor
}

// newSession builds the full in-process stack: config, diagnostic logger,
// project store, event bus, and a supervisor publishing to the bus.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dataDir := cfg.Paths.ResolveDataDir()

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(dataDir, cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to open diagnostic log: %w", err)
		}
	}

	store, err := project.NewStore(dataDir)
	if err != nil {
		logger.Close()
		return nil, err
	}

	bus := event.NewBus()
	sup := supervisor.New(
		supervisor.WithSink(bus),
		supervisor.WithLogger(logger),
		supervisor.WithPollInterval(cfg.Supervisor.PollInterval()),
		supervisor.WithRestartBackoff(cfg.Supervisor.RestartBackoff()),
		supervisor.WithRestartDelay(cfg.Supervisor.RestartDelay()),
	)

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		bus:    bus,
		sup:    sup,
	}, nil
}

// newStore builds just the project store, for commands that never spawn a
// process.
func newStore() (*project.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return project.NewStore(cfg.Paths.ResolveDataDir())
}

// close tears the session down: all processes stopped, background
// goroutines drained, log file closed.
func (s *session) close() {
	s.sup.Shutdown()
	s.logger.Close()
}
