package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook is a named shutdown step.
type Hook struct {
	Name string
	Fn   func(context.Context) error
}

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	logger  *slog.Logger
	hooks   []Hook
	mu      sync.Mutex
	done    chan struct{}
	signals []os.Signal
}

// NewHandler creates a new shutdown handler. Hooks share one context that
// expires after timeout.
func NewHandler(timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		timeout: timeout,
		logger:  logger,
		hooks:   make([]Hook, 0),
		done:    make(chan struct{}),
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, Hook{Name: name, Fn: fn})
}

// Wait blocks until a termination signal arrives or ctx is cancelled,
// then runs the hooks. Every hook runs even when an earlier one fails;
// the failures are joined into the returned error.
func (h *Handler) Wait(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, h.signals...)
	<-sigCtx.Done()
	stop()

	if ctx.Err() != nil {
		h.logger.Info("shutdown requested", "reason", "context cancelled")
	} else {
		h.logger.Info("shutdown requested", "reason", "signal")
	}

	return h.run()
}

// Shutdown runs the hooks immediately without waiting for a signal.
func (h *Handler) Shutdown() error {
	return h.run()
}

func (h *Handler) run() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		start := time.Now()
		if err := hooks[i].Fn(ctx); err != nil {
			h.logger.Error("shutdown hook failed", "hook", hooks[i].Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", hooks[i].Name, err))
			continue
		}
		h.logger.Info("shutdown hook done", "hook", hooks[i].Name, "duration", time.Since(start).String())
	}

	close(h.done)
	return errors.Join(errs...)
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
