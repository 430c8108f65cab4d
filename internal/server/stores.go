package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/taskboard/internal/config"
	"github.com/sakif/taskboard/internal/handler"
	"github.com/sakif/taskboard/internal/repository"
	"github.com/sakif/taskboard/internal/repository/postgres"
	sqliteRepo "github.com/sakif/taskboard/internal/repository/sqlite"
)

// Stores bundles the repositories the services need plus the handles used
// for health checks and shutdown.
type Stores struct {
	Identities repository.IdentityRepository
	Users      repository.UserRepository
	Tasks      repository.TaskRepository

	IdentityPing handler.Pinger
	AppPing      handler.Pinger

	closers []func()
}

// Close releases every connection pool. Safe to call more than once.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores connects the identity and application stores for cfg.Driver.
// Both are reachable (pinged) when it returns without error.
func OpenStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return openSQLite(cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stores, error) {
	identityPool, err := postgres.Open(ctx, cfg.IdentityDSN, cfg.IdentityVerifyTLS)
	if err != nil {
		return nil, fmt.Errorf("opening identity store: %w", err)
	}
	logger.Info("connected to identity store")

	appPool, err := postgres.Open(ctx, cfg.AppDSN, cfg.AppVerifyTLS)
	if err != nil {
		identityPool.Close()
		return nil, fmt.Errorf("opening application store: %w", err)
	}
	logger.Info("connected to application store")

	app := postgres.NewAppStore(appPool)
	if cfg.MigrateAppStore {
		if err := app.EnsureSchema(ctx); err != nil {
			appPool.Close()
			identityPool.Close()
			return nil, err
		}
		logger.Info("application schema ensured")
	}

	return &Stores{
		Identities:   postgres.NewIdentityStore(identityPool),
		Users:        app,
		Tasks:        app,
		IdentityPing: identityPool,
		AppPing:      appPool,
		closers:      []func(){identityPool.Close, appPool.Close},
	}, nil
}

func openSQLite(cfg config.Config, logger *slog.Logger) (*Stores, error) {
	for _, p := range []string{cfg.IdentityDBPath, cfg.AppDBPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	identity, err := sqliteRepo.New(cfg.IdentityDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening identity store: %w", err)
	}

	app, err := sqliteRepo.New(cfg.AppDBPath)
	if err != nil {
		identity.Close()
		return nil, fmt.Errorf("opening application store: %w", err)
	}

	logger.Info("using sqlite stores",
		slog.String("identity", cfg.IdentityDBPath),
		slog.String("application", cfg.AppDBPath),
	)

	return &Stores{
		Identities:   identity,
		Users:        app,
		Tasks:        app,
		IdentityPing: identity,
		AppPing:      app,
		closers: []func(){
			func() { identity.Close() },
			func() { app.Close() },
		},
	}, nil
}
