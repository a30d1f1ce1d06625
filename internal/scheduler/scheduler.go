package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Ticker is the minimal interface needed for driving the poll loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t timeTicker) Stop() {
	t.ticker.Stop()
}

// CheckFunc runs one poll cycle. It never fails; cycle errors become state.
type CheckFunc func(ctx context.Context)

// Scheduler drives the recurring poll loop and dispatches forced refreshes.
type Scheduler struct {
	logger        zerolog.Logger
	pollInterval  time.Duration
	tickerFactory func(time.Duration) Ticker
	check         CheckFunc

	mu     sync.Mutex
	runCtx context.Context
}

// Option customizes scheduler behavior.
type Option func(*Scheduler)

// WithTickerFactory overrides how tickers are created.
func WithTickerFactory(factory func(time.Duration) Ticker) Option {
	return func(s *Scheduler) {
		s.tickerFactory = factory
	}
}

// New constructs a Scheduler invoking check at the given interval.
func New(logger zerolog.Logger, pollInterval time.Duration, check CheckFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:       logger,
		pollInterval: pollInterval,
		check:        check,
		tickerFactory: func(d time.Duration) Ticker {
			return timeTicker{ticker: time.NewTicker(d)}
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run starts the poll loop and blocks until the context is canceled. The
// first cycle runs immediately so state is fresh on startup, not stale for a
// full period.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.pollInterval <= 0 {
		return errors.New("poll interval must be greater than zero")
	}
	if s.check == nil {
		return errors.New("check function is required")
	}

	s.mu.Lock()
	s.runCtx = ctx
	s.mu.Unlock()

	s.check(ctx)

	ticker := s.tickerFactory(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return nil
		case <-ticker.C():
			s.check(ctx)
		}
	}
}

// ForceRefresh dispatches an out-of-schedule cycle and returns once dispatched,
// not once complete. Overlap with a scheduled cycle is resolved by the
// monitor's in-flight guard, not here.
func (s *Scheduler) ForceRefresh() {
	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	s.logger.Debug().Msg("forced refresh dispatched")
	go s.check(ctx)
}
