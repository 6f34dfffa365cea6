package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"strongbox/config"
	"strongbox/internal/mocks"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func createTestWorker(t *testing.T, authUsecase *mocks.AuthUsecase) (*cleanupWorker, *fxtest.Lifecycle) {
	t.Helper()

	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{
		Cleanup: &config.CleanupConfig{Interval: 5 * time.Millisecond},
	}

	srv, err := NewServer(ServerParams{
		Lc:          lc,
		Cfg:         cfg,
		AuthUsecase: authUsecase,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	lc.RequireStart()

	return srv.(*cleanupWorker), lc
}

func TestCleanupWorker_SweepsOnTickAndStops(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	swept := make(chan struct{}, 1)
	authUsecase.On("CleanupExpiredSessions", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		Return(int64(2), nil)

	worker, lc := createTestWorker(t, authUsecase)

	served := make(chan error, 1)
	go func() {
		served <- worker.Serve(context.Background())
	}()

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never swept")
	}

	// The lifecycle hook closes the stop channel and waits for the loop
	// to drain before returning.
	lc.RequireStop()

	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after shutdown")
	}
}

func TestCleanupWorker_KeepsSweepingAfterFailure(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	swept := make(chan struct{}, 2)
	authUsecase.On("CleanupExpiredSessions", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		Return(int64(0), errors.New("ledger down")).Once()
	authUsecase.On("CleanupExpiredSessions", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		Return(int64(0), nil)

	worker, lc := createTestWorker(t, authUsecase)

	served := make(chan error, 1)
	go func() {
		served <- worker.Serve(context.Background())
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-swept:
		case <-time.After(2 * time.Second):
			t.Fatalf("worker stopped sweeping after %d sweeps", i)
		}
	}

	lc.RequireStop()
	require.NoError(t, <-served)
}

func TestCleanupWorker_StopsOnContextCancel(t *testing.T) {
	authUsecase := &mocks.AuthUsecase{}
	authUsecase.On("CleanupExpiredSessions", mock.Anything).Return(int64(0), nil)

	worker, _ := createTestWorker(t, authUsecase)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() {
		served <- worker.Serve(ctx)
	}()

	cancel()

	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
