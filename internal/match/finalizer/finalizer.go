// Package finalizer runs the periodic sweeps that move matches forward
// without a user request: issuing attendance codes, finishing matches whose
// end time has passed, and settling results after the grace period.
//
// A sweep lists candidates from the store and hands each one to the owning
// service, which re-checks eligibility under its own rules. One failing match
// is logged and counted; it never stops the rest of the batch.
package finalizer

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"matchday/internal/match/metrics"
	"matchday/internal/match/models"
	"matchday/internal/match/result"
	"matchday/internal/platform/tracing"
	id "matchday/pkg/domain"
	"matchday/pkg/requestcontext"
)

const tracerName = "matchday/match/finalizer"

const (
	SweepIssueCodes     = "issue_codes"
	SweepAutoFinish     = "auto_finish"
	SweepConfirmResults = "confirm_results"

	// DefaultSlack widens the confirmation query so a result is never missed
	// between hourly ticks. The service applies the exact cut-off.
	DefaultSlack = 3 * time.Hour
)

type Store interface {
	ListMatchesNeedingCodes(ctx context.Context, from, to, now time.Time) ([]*models.Match, error)
	ListMatchesPastEnd(ctx context.Context, now time.Time) ([]*models.Match, error)
	ListUnsettledResults(ctx context.Context, endedBefore time.Time) ([]*models.Result, error)
}

type CodeIssuer interface {
	GetOrGenerateCode(ctx context.Context, matchID id.MatchID) (string, time.Time, error)
}

type Finisher interface {
	AutoFinish(ctx context.Context, matchID id.MatchID) (bool, error)
}

type ResultFinalizer interface {
	Finalize(ctx context.Context, matchID id.MatchID) (result.Outcome, error)
}

// SweepReport summarizes one sweep run.
type SweepReport struct {
	Sweep      string
	Candidates int
	Processed  int
	Skipped    int
	Failed     int
}

type Sweeps struct {
	store      Store
	codes      CodeIssuer
	finisher   Finisher
	results    ResultFinalizer
	codeWindow time.Duration
	grace      time.Duration
	slack      time.Duration
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Sweeps)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeps) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeps) {
		s.metrics = m
	}
}

// WithCodeWindow sets how far ahead of kick-off codes are issued.
func WithCodeWindow(window time.Duration) Option {
	return func(s *Sweeps) {
		if window > 0 {
			s.codeWindow = window
		}
	}
}

// WithConfirmation sets the grace period the result service enforces and the
// slack added to the candidate query.
func WithConfirmation(grace, slack time.Duration) Option {
	return func(s *Sweeps) {
		if grace > 0 {
			s.grace = grace
		}
		if slack >= 0 {
			s.slack = slack
		}
	}
}

func New(store Store, codes CodeIssuer, finisher Finisher, results ResultFinalizer, opts ...Option) *Sweeps {
	s := &Sweeps{
		store:      store,
		codes:      codes,
		finisher:   finisher,
		results:    results,
		codeWindow: 60 * time.Minute,
		grace:      result.DefaultGrace,
		slack:      DefaultSlack,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueCodes generates codes for Open matches starting within the code window
// that have no valid code yet.
func (s *Sweeps) IssueCodes(ctx context.Context) (report SweepReport, err error) {
	now := requestcontext.Now(ctx)
	ctx, span := tracing.Start(ctx, tracerName, "finalizer.IssueCodes")
	began := time.Now()
	defer func() { s.finish(ctx, span, report, err, began) }()

	report.Sweep = SweepIssueCodes
	matches, err := s.store.ListMatchesNeedingCodes(ctx, now, now.Add(s.codeWindow), now)
	if err != nil {
		return report, err
	}
	report.Candidates = len(matches)
	for _, m := range matches {
		if _, _, err := s.codes.GetOrGenerateCode(ctx, m.ID); err != nil {
			s.itemFailed(ctx, &report, m.ID, err)
			continue
		}
		report.Processed++
	}
	return report, nil
}

// AutoFinish moves Open and InProgress matches past their end to Finished.
func (s *Sweeps) AutoFinish(ctx context.Context) (report SweepReport, err error) {
	now := requestcontext.Now(ctx)
	ctx, span := tracing.Start(ctx, tracerName, "finalizer.AutoFinish")
	began := time.Now()
	defer func() { s.finish(ctx, span, report, err, began) }()

	report.Sweep = SweepAutoFinish
	matches, err := s.store.ListMatchesPastEnd(ctx, now)
	if err != nil {
		return report, err
	}
	report.Candidates = len(matches)
	for _, m := range matches {
		finished, err := s.finisher.AutoFinish(ctx, m.ID)
		if err != nil {
			s.itemFailed(ctx, &report, m.ID, err)
			continue
		}
		if !finished {
			report.Skipped++
			continue
		}
		report.Processed++
	}
	return report, nil
}

// ConfirmResults settles unsettled results whose match ended at least the
// grace period ago.
func (s *Sweeps) ConfirmResults(ctx context.Context) (report SweepReport, err error) {
	now := requestcontext.Now(ctx)
	ctx, span := tracing.Start(ctx, tracerName, "finalizer.ConfirmResults")
	began := time.Now()
	defer func() { s.finish(ctx, span, report, err, began) }()

	report.Sweep = SweepConfirmResults
	results, err := s.store.ListUnsettledResults(ctx, now.Add(-s.grace).Add(s.slack))
	if err != nil {
		return report, err
	}
	report.Candidates = len(results)
	for _, r := range results {
		outcome, err := s.results.Finalize(ctx, r.MatchID)
		if err != nil {
			s.itemFailed(ctx, &report, r.MatchID, err)
			continue
		}
		if outcome == result.OutcomeSkipped {
			report.Skipped++
			continue
		}
		report.Processed++
	}
	return report, nil
}

func (s *Sweeps) itemFailed(ctx context.Context, report *SweepReport, matchID id.MatchID, err error) {
	report.Failed++
	s.logger.ErrorContext(ctx, "sweep item failed",
		"sweep", report.Sweep,
		"match_id", matchID,
		"error", err,
	)
}

func (s *Sweeps) finish(ctx context.Context, span trace.Span, report SweepReport, err error, began time.Time) {
	span.SetAttributes(
		attribute.String("sweep", report.Sweep),
		attribute.Int("sweep.candidates", report.Candidates),
		attribute.Int("sweep.failed", report.Failed),
	)
	tracing.End(span, err)

	s.metrics.ObserveSweep(report.Sweep, time.Since(began), report.Processed, report.Failed)
	if err != nil {
		s.logger.ErrorContext(ctx, "sweep failed", "sweep", report.Sweep, "error", err)
		return
	}
	if report.Candidates > 0 {
		s.logger.InfoContext(ctx, "sweep completed",
			"sweep", report.Sweep,
			"candidates", report.Candidates,
			"processed", report.Processed,
			"skipped", report.Skipped,
			"failed", report.Failed,
		)
	}
}
