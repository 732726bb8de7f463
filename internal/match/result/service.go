// Package result turns score submissions into one authoritative match result.
//
// Every read-modify-write of a result runs under the match's lock and inside
// one store transaction: the temporary recompute after a submission, final
// confirmation by the scheduler, and the administrative override.
package result

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"matchday/internal/match/lock"
	"matchday/internal/match/metrics"
	"matchday/internal/match/models"
	"matchday/internal/notification"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
)

const (
	tracerName = "matchday/match/result"

	DefaultMinSubmissions = 2
	DefaultGrace          = 24 * time.Hour
)

type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindMatchByID(ctx context.Context, matchID id.MatchID) (*models.Match, error)
	GetOrCreateResult(ctx context.Context, matchID id.MatchID, now time.Time) (*models.Result, error)
	FindResultByID(ctx context.Context, resultID id.ResultID) (*models.Result, error)
	FindResultByMatch(ctx context.Context, matchID id.MatchID) (*models.Result, error)
	UpdateResult(ctx context.Context, r *models.Result) error
	CreateSubmission(ctx context.Context, sub *models.ScoreSubmission) error
	ListSubmissions(ctx context.Context, matchID id.MatchID) ([]*models.ScoreSubmission, error)
	UpdateSubmissionStatuses(ctx context.Context, matchID id.MatchID, statuses map[id.SubmissionID]models.SubmissionStatus) error
}

// Roster answers membership questions about a match.
type Roster interface {
	IsParticipant(ctx context.Context, matchID id.MatchID, userID id.UserID) (bool, error)
	Team(ctx context.Context, matchID id.MatchID, teamID id.TeamID) (*models.Team, error)
	TeamPair(ctx context.Context, matchID id.MatchID) (models.TeamPair, error)
}

type Service struct {
	store          Store
	roster         Roster
	locker         lock.Locker
	minSubmissions int
	grace          time.Duration
	notifier       notification.Notifier
	metrics        *metrics.Metrics
	logger         *slog.Logger
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

// WithLocker replaces the default in-process lock, e.g. with a Redis lease
// when several instances share one database.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithConsensus sets the submission quorum for final confirmation and the
// delay after the match ends before it is attempted.
func WithConsensus(minSubmissions int, grace time.Duration) Option {
	return func(s *Service) {
		if minSubmissions > 0 {
			s.minSubmissions = minSubmissions
		}
		if grace > 0 {
			s.grace = grace
		}
	}
}

func New(store Store, roster Roster, opts ...Option) *Service {
	s := &Service{
		store:          store,
		roster:         roster,
		locker:         lock.NewKeyedMutex(0),
		minSubmissions: DefaultMinSubmissions,
		grace:          DefaultGrace,
		notifier:       notification.Nop{},
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grace is how long after a match ends its result becomes final.
func (s *Service) Grace() time.Duration { return s.grace }

// View is a result together with the submissions it was derived from.
type View struct {
	Result      *models.Result            `json:"result"`
	Submissions []*models.ScoreSubmission `json:"submissions"`
}

func (s *Service) GetResult(ctx context.Context, matchID id.MatchID) (*View, error) {
	if _, err := s.loadMatch(ctx, matchID); err != nil {
		return nil, err
	}
	r, err := s.store.FindResultByMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeResultNotFound, "no result has been submitted for this match")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load result")
	}
	subs, err := s.store.ListSubmissions(ctx, matchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submissions")
	}
	return &View{Result: r, Submissions: subs}, nil
}

// withMatchLock runs fn in a transaction while holding the match's lock.
func (s *Service) withMatchLock(ctx context.Context, matchID id.MatchID, fn func(ctx context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, matchID)
	if err != nil {
		return err
	}
	defer unlock()
	return s.store.RunInTx(ctx, fn)
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

// updateResult translates the store's refusal to touch a confirmed row.
func (s *Service) updateResult(ctx context.Context, r *models.Result) error {
	if err := s.store.UpdateResult(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return dErrors.New(dErrors.CodeResultAlreadyConfirmed, "match result is already confirmed")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update result")
	}
	return nil
}

func (s *Service) notifyResult(ctx context.Context, kind notification.Kind, r *models.Result) {
	attrs := map[string]string{
		"result_id": r.ID.String(),
		"status":    string(r.Status),
	}
	if r.Status != models.ResultDisputed {
		attrs["score"] = scoreString(r.Scoreline())
	}
	if r.WinningTeamID != nil {
		attrs["winning_team_id"] = r.WinningTeamID.String()
	}
	s.notifier.Notify(ctx, notification.NewEvent(ctx, kind, r.MatchID, attrs))
}
