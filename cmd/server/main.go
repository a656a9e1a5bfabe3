package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hperssn/guessgame/internal/config"
	httpapi "github.com/hperssn/guessgame/internal/http"
	"github.com/hperssn/guessgame/internal/runner"
	"github.com/hperssn/guessgame/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	cfg.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	repo, err := storage.Open(cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return err
	}

	var opts []runner.Option
	if repo != nil {
		defer repo.Close()
		opts = append(opts, runner.WithResultsSaver(repo))
		log.WithField("driver", cfg.StorageDriver).Info("archiving results")
	}

	manager := runner.NewSessionManager(runner.Config{
		Session:         cfg.SessionConfig(),
		TickInterval:    cfg.TickInterval,
		SessionTTL:      cfg.SessionTTL,
		CleanupInterval: cfg.CleanupInterval,
	}, opts...)
	defer manager.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(manager, repo),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Open event streams only end when their sessions stop.
	manager.Close()
	return srv.Shutdown(shutdownCtx)
}
