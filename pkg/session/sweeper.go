package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultSweepTimeout = time.Minute

// Sweeper periodically removes idle sessions from a store.
type Sweeper struct {
	store   Sweepable
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time
	maxAge  time.Duration
	timeout time.Duration
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperLogger sets the logger used to report sweep results.
func WithSweeperLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSweepTimeout bounds a single sweep run. Defaults to one minute.
func WithSweepTimeout(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSweeper creates a sweeper that runs on a standard five-field cron schedule
// and removes records idle for longer than maxAge.
//
// Example:
//
//	sw, err := session.NewSweeper(store, "*/15 * * * *", 24*time.Hour)
//	app.Run(":8080", restify.StartupHook(sw.Start), restify.ShutdownHook(sw.Stop))
func NewSweeper(store Sweepable, schedule string, maxAge time.Duration, opts ...SweeperOption) (*Sweeper, error) {
	s := &Sweeper{
		store:   store,
		cron:    cron.New(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		maxAge:  maxAge,
		timeout: defaultSweepTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return s, nil
}

// Start begins the schedule. It matches the startup hook signature.
func (s *Sweeper) Start(context.Context) error {
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep runs one pass immediately.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	return s.store.Sweep(ctx, s.now().Add(-s.maxAge))
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.Sweep(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "session sweep failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "session sweep completed", slog.Int("removed", n))
	}
}
