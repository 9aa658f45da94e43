// Package server wires the auth service together: config, database,
// migrations, token codec, audit dispatcher and the HTTP edge, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/radiolab/radiometer-auth/internal/logging"
	"github.com/radiolab/radiometer-auth/internal/server/config"
	"github.com/radiolab/radiometer-auth/internal/server/httpapi"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/repomanager"
	"github.com/radiolab/radiometer-auth/internal/server/repositories/tokens"
	"github.com/radiolab/radiometer-auth/internal/server/services"
	"github.com/radiolab/radiometer-auth/internal/server/token"
)

const (
	shutdownTimeout   = 10 * time.Second
	housekeepInterval = time.Hour
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	tokens         tokens.Repository
	audit          *services.AuditDispatcher
	httpServer     *httpapi.Server
	housekeepEvery time.Duration
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec, err := token.NewCodec(cfg.SecretKey, cfg.Issuer, cfg.Audience, cfg.TokenValidityDuration)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("codec init error: %w", err)
	}

	audit := services.NewAuditDispatcher(rm.AuditLog(db), logger, 64)
	auth := services.NewAuthService(db, rm, codec, audit, logger)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		tokens:         rm.Tokens(db),
		audit:          audit,
		httpServer:     httpapi.NewServer(cfg, auth, logger),
		housekeepEvery: housekeepInterval,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// housekeepTokens periodically removes service token records whose stored
// expiration has passed. A failed sweep is logged and retried on the next
// tick.
func (app *App) housekeepTokens(ctx context.Context) {
	ticker := time.NewTicker(app.housekeepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.tokens.DeleteExpired(ctx)
			if err != nil {
				app.logger.Warn(ctx, "expired token cleanup failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired token records removed", "count", n)
			}
		}
	}
}

// Run serves HTTP until ctx is cancelled or an OS signal arrives, then
// shuts the server down, flushes the audit buffer and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.housekeepTokens(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Listen(app.config.EndpointAddr); err != nil {
			app.logger.Error(ctx, "http server stopped", "error", err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
	}

	wg.Wait()

	app.audit.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
	}

	app.logger.Info(shutdownCtx, "app stopped")
}
