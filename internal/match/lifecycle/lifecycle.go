// Package lifecycle moves matches between statuses.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"matchday/internal/match/metrics"
	"matchday/internal/match/models"
	"matchday/internal/notification"
	"matchday/internal/platform/tracing"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
	"matchday/pkg/platform/tx"
	"matchday/pkg/requestcontext"
)

const (
	tracerName = "matchday/match/lifecycle"

	// writeAttempts bounds re-reads after losing a status compare-and-set.
	writeAttempts = 3
)

type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindMatchByID(ctx context.Context, matchID id.MatchID) (*models.Match, error)
	// UpdateMatchStatus fails with sentinel.ErrConflict when the stored
	// status is no longer from.
	UpdateMatchStatus(ctx context.Context, matchID id.MatchID, from, to models.MatchStatus, at time.Time) error
}

// FeedbackRequester asks participants to rate a match once it is over.
type FeedbackRequester interface {
	RequestFeedback(ctx context.Context, matchID id.MatchID) (int, error)
}

type Service struct {
	store    Store
	feedback FeedbackRequester
	notifier notification.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithFeedbackRequester(f FeedbackRequester) Option {
	return func(s *Service) {
		s.feedback = f
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notification.Nop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChangeStatus applies a user-requested transition. A nil actor is the
// system and skips the creator check.
func (s *Service) ChangeStatus(ctx context.Context, matchID id.MatchID, target models.MatchStatus, actor *id.UserID) (match *models.Match, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "lifecycle.ChangeStatus",
		tracing.MatchID(matchID.String()),
		attribute.String("match.target_status", string(target)),
	)
	defer func() { tracing.End(span, err) }()

	if !target.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown match status %q", target)
	}

	now := requestcontext.Now(ctx)
	var from models.MatchStatus
	err = tx.RetryOnConflict(writeAttempts, func() error {
		return s.store.RunInTx(ctx, func(txCtx context.Context) error {
			m, err := s.loadMatch(txCtx, matchID)
			if err != nil {
				return err
			}
			if actor != nil && !m.IsCreator(*actor) {
				return dErrors.New(dErrors.CodeNotMatchCreator, "only the match creator can change its status")
			}
			if err := m.CanChangeStatus(target); err != nil {
				return err
			}
			from = m.Status
			if err := s.swapStatus(txCtx, m, target, now); err != nil {
				return err
			}
			match = m
			return nil
		})
	})
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.Wrap(err, dErrors.CodeConflict, "match status keeps changing, try again")
	}
	if err != nil {
		return nil, err
	}

	s.statusChanged(ctx, match, from)
	return match, nil
}

// AutoFinish moves an Open or InProgress match whose end time has passed to
// Finished and requests post-match feedback. It reports false when the match
// is not (or no longer) eligible.
func (s *Service) AutoFinish(ctx context.Context, matchID id.MatchID) (finished bool, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "lifecycle.AutoFinish", tracing.MatchID(matchID.String()))
	defer func() { tracing.End(span, err) }()

	now := requestcontext.Now(ctx)
	var (
		match *models.Match
		from  models.MatchStatus
	)
	// A lost race re-reads the match, so a cancel that lands first wins.
	err = tx.RetryOnConflict(writeAttempts, func() error {
		return s.store.RunInTx(ctx, func(txCtx context.Context) error {
			m, err := s.loadMatch(txCtx, matchID)
			if err != nil {
				return err
			}
			if !m.CanAutoFinish(now) {
				return nil
			}
			from = m.Status
			if err := s.swapStatus(txCtx, m, models.MatchStatusFinished, now); err != nil {
				return err
			}
			match = m
			return nil
		})
	})
	if errors.Is(err, sentinel.ErrConflict) {
		return false, dErrors.Wrap(err, dErrors.CodeConflict, "match status keeps changing")
	}
	if err != nil || match == nil {
		return false, err
	}

	s.statusChanged(ctx, match, from)
	if s.feedback != nil {
		if _, err := s.feedback.RequestFeedback(ctx, matchID); err != nil {
			s.logger.WarnContext(ctx, "failed to request feedback", "match_id", matchID, "error", err)
		}
	}
	return true, nil
}

func (s *Service) loadMatch(ctx context.Context, matchID id.MatchID) (*models.Match, error) {
	m, err := s.store.FindMatchByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeMatchNotFound, "match not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load match")
	}
	return m, nil
}

// swapStatus writes target only if the stored status is still m.Status.
// A lost race comes back as sentinel.ErrConflict for the caller to retry.
func (s *Service) swapStatus(ctx context.Context, m *models.Match, target models.MatchStatus, now time.Time) error {
	err := s.store.UpdateMatchStatus(ctx, m.ID, m.Status, target, now)
	switch {
	case err == nil:
		m.ApplyStatus(target, now)
		return nil
	case errors.Is(err, sentinel.ErrConflict):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeMatchNotFound, "match not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update match")
	}
}

func (s *Service) statusChanged(ctx context.Context, m *models.Match, from models.MatchStatus) {
	s.metrics.IncrementTransition(string(from), string(m.Status))
	s.logger.InfoContext(ctx, "match status changed",
		"match_id", m.ID,
		"from", from,
		"to", m.Status,
	)
	s.notifier.Notify(ctx, notification.NewEvent(ctx, notification.KindMatchStatusChanged, m.ID, map[string]string{
		"from": string(from),
		"to":   string(m.Status),
	}))
}
