package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "PulseCast/internal/domain/repository"
	"PulseCast/internal/service/okx"
	"PulseCast/internal/usecase"
	"PulseCast/pkg/config"
	xhttp "PulseCast/pkg/http"
	applogger "PulseCast/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP API, the live trade
// stream, and the background watchlist refresh loop.
type App struct {
	cfg     *config.Config
	log     *applogger.Logger
	uc      *usecase.ForecastUseCase
	scanner *usecase.Scanner
	stream  *okx.Stream // nil when the live tape is disabled
	store   domrepo.ForecastStore
	pub     domrepo.ForecastPublisher

	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates the application with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	uc *usecase.ForecastUseCase,
	scanner *usecase.Scanner,
	stream *okx.Stream,
	store domrepo.ForecastStore,
	pub domrepo.ForecastPublisher,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		uc:          uc,
		scanner:     scanner,
		stream:      stream,
		store:       store,
		pub:         pub,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.store != nil {
		initCtx, done := context.WithTimeout(ctx, 15*time.Second)
		err := a.store.Init(initCtx)
		done()
		if err != nil {
			return err
		}
		a.log.Info("forecast store ready")
	}

	if a.stream != nil {
		go a.stream.Run(ctx)
		a.log.Info("trade stream started", applogger.Strings("instruments", a.cfg.Venues.OKX.Symbols))
	}

	go a.refreshLoop(ctx)

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.log.Info("api listening", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// refreshLoop re-evaluates the watchlist on a fixed cadence so the cache
// stays warm and the sinks receive a continuous forecast series even with no
// API traffic.
func (a *App) refreshLoop(ctx context.Context) {
	if a.cfg.Engine.RefreshEvery <= 0 {
		return
	}
	ticker := time.NewTicker(a.cfg.Engine.RefreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, sym := range a.cfg.Engine.Watchlist {
				if _, err := a.uc.Forecast(ctx, usecase.ForecastParams{Symbol: sym, BypassCache: true}); err != nil {
					a.log.Warn("watchlist refresh", applogger.String("symbol", sym), applogger.Error(err))
				}
			}
		}
	}
}

func (a *App) shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var firstErr error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			firstErr = err
		}
	}
	if a.pub != nil {
		if err := a.pub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.log.Info("shutdown complete")
	return firstErr
}
