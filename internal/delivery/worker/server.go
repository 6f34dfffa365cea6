// Package worker contains the background session sweeper.
package worker

import (
	"context"
	"log/slog"
	"time"

	"strongbox/config"
	"strongbox/internal/delivery"
	"strongbox/internal/usecase"

	"go.uber.org/fx"
)

// cleanupWorker periodically removes expired session records. The sweep is
// purely housekeeping: token validity never depends on the ledger, so a
// delayed or failed sweep only leaves stale rows behind.
type cleanupWorker struct {
	interval    time.Duration
	authUsecase usecase.AuthUsecase
	logger      *slog.Logger
	stop        chan struct{}
	done        chan struct{}
}

// ServerParams holds dependencies for the cleanup worker, injected by Fx.
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	AuthUsecase usecase.AuthUsecase
	Logger      *slog.Logger
}

// NewServer creates the session cleanup worker.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := &cleanupWorker{
		interval:    params.Cfg.CleanupInterval(),
		authUsecase: params.AuthUsecase,
		logger:      params.Logger,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.shutdown,
	})

	return srv, nil
}

// Serve runs the sweep loop until the context is cancelled or the worker
// is stopped.
func (s *cleanupWorker) Serve(ctx context.Context) error {
	defer close(s.done)

	s.logger.Info("Starting session cleanup worker", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *cleanupWorker) sweep(ctx context.Context) {
	deleted, err := s.authUsecase.CleanupExpiredSessions(ctx)
	if err != nil {
		s.logger.Error("Session sweep failed", slog.Any("error", err))

		return
	}

	s.logger.Debug("Session sweep completed", slog.Int64("deleted", deleted))
}

func (s *cleanupWorker) shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down session cleanup worker")
	close(s.stop)

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	return nil
}
