package finalizer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"matchday/pkg/requestcontext"
)

// Intervals are the tick periods of the three sweeps.
type Intervals struct {
	IssueCodes     time.Duration
	AutoFinish     time.Duration
	ConfirmResults time.Duration
}

func DefaultIntervals() Intervals {
	return Intervals{
		IssueCodes:     5 * time.Minute,
		AutoFinish:     time.Minute,
		ConfirmResults: time.Hour,
	}
}

type sweepFunc func(ctx context.Context) (SweepReport, error)

// Scheduler ticks each sweep on its own interval. Every run gets a fresh batch
// time from the clock, stamped into the context so services see one "now".
type Scheduler struct {
	sweeps    *Sweeps
	intervals Intervals
	clock     func() time.Time
	logger    *slog.Logger
}

type SchedulerOption func(*Scheduler)

func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func WithClock(clock func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

func WithIntervals(in Intervals) SchedulerOption {
	return func(s *Scheduler) {
		defaults := DefaultIntervals()
		if in.IssueCodes <= 0 {
			in.IssueCodes = defaults.IssueCodes
		}
		if in.AutoFinish <= 0 {
			in.AutoFinish = defaults.AutoFinish
		}
		if in.ConfirmResults <= 0 {
			in.ConfirmResults = defaults.ConfirmResults
		}
		s.intervals = in
	}
}

func NewScheduler(sweeps *Sweeps, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		sweeps:    sweeps,
		intervals: DefaultIntervals(),
		clock:     time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is cancelled. Each sweep also runs once at startup so
// work missed while the process was down is picked up immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "finalizer scheduler started",
		"issue_codes_every", s.intervals.IssueCodes,
		"auto_finish_every", s.intervals.AutoFinish,
		"confirm_results_every", s.intervals.ConfirmResults,
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.loop(ctx, s.intervals.IssueCodes, s.sweeps.IssueCodes) })
	g.Go(func() error { return s.loop(ctx, s.intervals.AutoFinish, s.sweeps.AutoFinish) })
	g.Go(func() error { return s.loop(ctx, s.intervals.ConfirmResults, s.sweeps.ConfirmResults) })
	return g.Wait()
}

// RunOnce runs every sweep a single time at the clock's current time.
func (s *Scheduler) RunOnce(ctx context.Context) []SweepReport {
	var reports []SweepReport
	for _, sweep := range []sweepFunc{s.sweeps.IssueCodes, s.sweeps.AutoFinish, s.sweeps.ConfirmResults} {
		report, _ := s.tick(ctx, sweep)
		reports = append(reports, report)
	}
	return reports
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, sweep sweepFunc) error {
	_, _ = s.tick(ctx, sweep)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.tick(ctx, sweep)
		}
	}
}

// tick detaches from ctx cancellation so a sweep in flight at shutdown
// finishes its current batch.
func (s *Scheduler) tick(ctx context.Context, sweep sweepFunc) (SweepReport, error) {
	batchCtx := requestcontext.WithTime(context.WithoutCancel(ctx), s.clock())
	return sweep(batchCtx)
}
