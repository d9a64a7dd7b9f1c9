// Package server wires the identity service together: storage, migrations,
// the resolver behind AuthService and the gRPC transport.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophid/internal/cryptox"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/config"
	"github.com/dmitrijs2005/gophid/internal/server/handles"
	"github.com/dmitrijs2005/gophid/internal/server/providers"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophid/internal/server/services"

	gs "github.com/dmitrijs2005/gophid/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
}

// NewApp opens the store, applies migrations and builds the services. The
// logger writes JSON to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger := logging.NewJSONLogger(w, level)

	db, rm, err := repomanager.Open(c.StorageBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	registry := providers.NewRegistryFromCredentials(
		providers.Credentials{ClientID: c.GoogleClientID, ClientSecret: c.GoogleClientSecret, RedirectURL: c.GoogleRedirectURL},
		providers.Credentials{ClientID: c.FacebookClientID, ClientSecret: c.FacebookClientSecret, RedirectURL: c.FacebookRedirectURL},
	)

	as, err := services.NewAuthService(db, rm, cryptox.NewBcryptHasher(), handles.New(), registry, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, authService: as}, nil
}

// Run serves gRPC until ctx is cancelled or the process gets SIGINT,
// SIGTERM or SIGQUIT, then closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "closing database", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server stopped", "error", err)
		return err
	}
	return nil
}

// Main is the process entry point used by cmd/server.
func Main() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	app, err := NewApp(context.Background(), cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(context.Background()); err != nil {
		return 1
	}
	return 0
}
