// Package service creates post-match feedback requests.
package service

import (
	"context"
	"log/slog"

	"matchday/internal/feedback/models"
	"matchday/internal/notification"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/requestcontext"
)

type Store interface {
	CreateIfAbsent(ctx context.Context, r *models.Request) (bool, error)
	ListByMatch(ctx context.Context, matchID id.MatchID) ([]*models.Request, error)
	ListPendingByUser(ctx context.Context, userID id.UserID) ([]*models.Request, error)
}

// Roster lists who played.
type Roster interface {
	Participants(ctx context.Context, matchID id.MatchID) ([]id.UserID, error)
}

type Service struct {
	store    Store
	roster   Roster
	notifier notification.Notifier
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

func New(store Store, roster Roster, opts ...Option) *Service {
	s := &Service{
		store:    store,
		roster:   roster,
		notifier: notification.Nop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestFeedback creates one pending request per participant. Calling it
// again for the same match creates nothing new and notifies nobody.
func (s *Service) RequestFeedback(ctx context.Context, matchID id.MatchID) (int, error) {
	participants, err := s.roster.Participants(ctx, matchID)
	if err != nil {
		return 0, err
	}

	now := requestcontext.Now(ctx)
	created := 0
	for _, userID := range participants {
		ok, err := s.store.CreateIfAbsent(ctx, models.NewRequest(matchID, userID, now))
		if err != nil {
			return created, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create feedback request")
		}
		if !ok {
			continue
		}
		created++
		s.notifier.Notify(ctx, notification.NewEvent(ctx, notification.KindFeedbackRequested, matchID, nil).ForUser(userID))
	}

	if created > 0 {
		s.logger.InfoContext(ctx, "feedback requested", "match_id", matchID, "requests", created)
	}
	return created, nil
}

func (s *Service) ForMatch(ctx context.Context, matchID id.MatchID) ([]*models.Request, error) {
	requests, err := s.store.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load feedback requests")
	}
	return requests, nil
}

// PendingForUser lists the requests userID has not answered yet.
func (s *Service) PendingForUser(ctx context.Context, userID id.UserID) ([]*models.Request, error) {
	requests, err := s.store.ListPendingByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load feedback requests")
	}
	return requests, nil
}
