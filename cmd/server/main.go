package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ngoclaithe/scoliv2-sub000/internal/accesscode"
	"github.com/ngoclaithe/scoliv2-sub000/internal/config"
	"github.com/ngoclaithe/scoliv2-sub000/internal/httpapi"
	"github.com/ngoclaithe/scoliv2-sub000/internal/hub"
	"github.com/ngoclaithe/scoliv2-sub000/internal/lobby"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, closeRegistry, err := openRegistry(cfg, log)
	if err != nil {
		return err
	}

	h := hub.NewHub(ctx, lobby.WithTickInterval(cfg.TickInterval), lobby.WithLogger(log))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(h, reg, log, ws.Options{OriginPatterns: cfg.AllowedOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		h.Inbox() <- hub.ShutdownHub{}
		select {
		case <-h.Done():
		case <-shutdownCtx.Done():
		}
		return multierr.Append(err, closeRegistry())
	})
	return g.Wait()
}

// openRegistry uses Postgres when DATABASE_URL is set and an in-memory
// registry otherwise.
func openRegistry(cfg config.Config, log *zap.Logger) (accesscode.Registry, func() error, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, access codes are kept in memory")
		return accesscode.NewMemoryRegistry(), func() error { return nil }, nil
	}
	reg, err := accesscode.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return reg, reg.Close, nil
}
