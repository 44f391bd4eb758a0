package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoCast/internal/auth"
	domrepo "CryptoCast/internal/domain/repository"
	"CryptoCast/pkg/config"
	xhttp "CryptoCast/pkg/http"
	applogger "CryptoCast/pkg/logger"
)

const startupTimeout = 10 * time.Second

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	history     domrepo.HistoryStore
	session     *auth.Session
	closers     []namedCloser
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	history domrepo.HistoryStore,
	session *auth.Session,
) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &App{
		cfg:         cfg,
		logger:      logger.Component("app"),
		httpHandler: handler,
		history:     history,
		session:     session,
	}
}

// AddCloser registers a resource released on shutdown, in registration order.
// Values that are not io.Closer are ignored.
func (a *App) AddCloser(name string, v any) {
	if c, ok := v.(io.Closer); ok && c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.restore(ctx)

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(a.cfg.Server.SlowThreshold),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
		xhttp.WithLogger(a.logger),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// restore loads the persisted session and history before serving.
func (a *App) restore(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if a.session != nil {
		state := a.session.LoadSession(ctx)
		a.logger.Info("session restored", applogger.String("state", string(state)))
	}
	if a.history != nil {
		items := a.history.Load(ctx)
		a.logger.Info("history restored", applogger.Int("size", len(items)))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("http shutdown error", applogger.Error(err))
		}
	}

	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
