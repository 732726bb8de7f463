package lifecycle_test

//go:generate mockgen -source=lifecycle.go -destination=mocks/mocks.go -package=mocks Store,FeedbackRequester

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"matchday/internal/match/lifecycle"
	"matchday/internal/match/lifecycle/mocks"
	"matchday/internal/match/models"
	"matchday/internal/match/store"
	"matchday/internal/notification"
	notificationmocks "matchday/internal/notification/mocks"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
	"matchday/pkg/requestcontext"
)

type LifecycleSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *store.InMemory
	notifier *notificationmocks.MockNotifier
	feedback *mocks.MockFeedbackRequester
	service  *lifecycle.Service
	now      time.Time
	creator  id.UserID
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.notifier = notificationmocks.NewMockNotifier(s.ctrl)
	s.feedback = mocks.NewMockFeedbackRequester(s.ctrl)
	s.service = lifecycle.New(s.store,
		lifecycle.WithNotifier(s.notifier),
		lifecycle.WithFeedbackRequester(s.feedback),
	)
	s.now = time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC)
	s.creator = id.UserID(uuid.New())
}

func (s *LifecycleSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *LifecycleSuite) createMatch(start time.Time, status models.MatchStatus) *models.Match {
	m, err := models.NewMatch(id.NewMatchID(), "Five-a-side", start, 60, s.creator, s.now.Add(-48*time.Hour))
	s.Require().NoError(err)
	m.Status = status
	s.Require().NoError(s.store.CreateMatch(context.Background(), m))
	return m
}

func (s *LifecycleSuite) expectStatusEvent(matchID id.MatchID, from, to models.MatchStatus) {
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e notification.Event) {
		s.Equal(notification.KindMatchStatusChanged, e.Kind)
		s.Equal(matchID, e.MatchID)
		s.Equal(string(from), e.Attributes["from"])
		s.Equal(string(to), e.Attributes["to"])
		s.Equal(s.now, e.OccurredAt)
	})
}

func (s *LifecycleSuite) TestChangeStatus() {
	s.Run("walks the happy path to completed", func() {
		m := s.createMatch(s.now.Add(time.Hour), models.MatchStatusDraft)
		steps := []models.MatchStatus{models.MatchStatusOpen, models.MatchStatusInProgress, models.MatchStatusCompleted}
		from := models.MatchStatusDraft
		for _, next := range steps {
			s.expectStatusEvent(m.ID, from, next)
			got, err := s.service.ChangeStatus(s.ctx(), m.ID, next, &s.creator)
			s.Require().NoError(err)
			s.Equal(next, got.Status)
			s.Equal(s.now, got.UpdatedAt)
			from = next
		}
	})

	s.Run("rejects draft to in progress and leaves the match untouched", func() {
		m := s.createMatch(s.now.Add(time.Hour), models.MatchStatusDraft)
		_, err := s.service.ChangeStatus(s.ctx(), m.ID, models.MatchStatusInProgress, &s.creator)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))

		stored, err := s.store.FindMatchByID(context.Background(), m.ID)
		s.Require().NoError(err)
		s.Equal(models.MatchStatusDraft, stored.Status)
	})

	s.Run("nothing leaves a terminal status", func() {
		for _, terminal := range []models.MatchStatus{models.MatchStatusCompleted, models.MatchStatusCancelled} {
			m := s.createMatch(s.now.Add(time.Hour), terminal)
			for _, target := range []models.MatchStatus{
				models.MatchStatusDraft, models.MatchStatusOpen, models.MatchStatusInProgress,
				models.MatchStatusCompleted, models.MatchStatusCancelled,
			} {
				_, err := s.service.ChangeStatus(s.ctx(), m.ID, target, nil)
				s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition), "%s -> %s", terminal, target)
			}
		}
	})

	s.Run("finished is not a user target", func() {
		m := s.createMatch(s.now.Add(time.Hour), models.MatchStatusInProgress)
		_, err := s.service.ChangeStatus(s.ctx(), m.ID, models.MatchStatusFinished, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidStateTransition))
	})

	s.Run("only the creator may change status", func() {
		m := s.createMatch(s.now.Add(time.Hour), models.MatchStatusDraft)
		stranger := id.UserID(uuid.New())
		_, err := s.service.ChangeStatus(s.ctx(), m.ID, models.MatchStatusOpen, &stranger)
		s.True(dErrors.HasCode(err, dErrors.CodeNotMatchCreator))
	})

	s.Run("unknown match and unknown status", func() {
		_, err := s.service.ChangeStatus(s.ctx(), id.NewMatchID(), models.MatchStatusOpen, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeMatchNotFound))

		m := s.createMatch(s.now.Add(time.Hour), models.MatchStatusDraft)
		_, err = s.service.ChangeStatus(s.ctx(), m.ID, models.MatchStatus("paused"), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *LifecycleSuite) TestAutoFinish() {
	s.Run("finishes an ended match and requests feedback", func() {
		m := s.createMatch(s.now.Add(-time.Hour), models.MatchStatusInProgress)
		s.expectStatusEvent(m.ID, models.MatchStatusInProgress, models.MatchStatusFinished)
		s.feedback.EXPECT().RequestFeedback(gomock.Any(), m.ID).Return(4, nil)

		finished, err := s.service.AutoFinish(s.ctx(), m.ID)
		s.Require().NoError(err)
		s.True(finished)

		stored, err := s.store.FindMatchByID(context.Background(), m.ID)
		s.Require().NoError(err)
		s.Equal(models.MatchStatusFinished, stored.Status)
	})

	s.Run("skips a match that is still playing", func() {
		m := s.createMatch(s.now.Add(-30*time.Minute), models.MatchStatusOpen)
		finished, err := s.service.AutoFinish(s.ctx(), m.ID)
		s.Require().NoError(err)
		s.False(finished)
	})

	s.Run("skips cancelled matches", func() {
		m := s.createMatch(s.now.Add(-3*time.Hour), models.MatchStatusCancelled)
		finished, err := s.service.AutoFinish(s.ctx(), m.ID)
		s.Require().NoError(err)
		s.False(finished)
	})

	s.Run("feedback failure does not undo the finish", func() {
		m := s.createMatch(s.now.Add(-2*time.Hour), models.MatchStatusOpen)
		s.expectStatusEvent(m.ID, models.MatchStatusOpen, models.MatchStatusFinished)
		s.feedback.EXPECT().RequestFeedback(gomock.Any(), m.ID).Return(0, errors.New("feedback store down"))

		finished, err := s.service.AutoFinish(s.ctx(), m.ID)
		s.Require().NoError(err)
		s.True(finished)
	})
}

func (s *LifecycleSuite) TestStoreFailureIsInternal() {
	ms := mocks.NewMockStore(s.ctrl)
	svc := lifecycle.New(ms, lifecycle.WithNotifier(s.notifier))
	m, err := models.NewMatch(id.NewMatchID(), "x", s.now, 60, s.creator, s.now)
	s.Require().NoError(err)

	ms.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	ms.EXPECT().FindMatchByID(gomock.Any(), m.ID).Return(m, nil)
	ms.EXPECT().UpdateMatchStatus(gomock.Any(), m.ID, models.MatchStatusDraft, models.MatchStatusOpen, s.now).
		Return(errors.New("connection reset"))

	_, err = svc.ChangeStatus(s.ctx(), m.ID, models.MatchStatusOpen, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *LifecycleSuite) TestConflictingWriterIsRetried() {
	ms := mocks.NewMockStore(s.ctrl)
	svc := lifecycle.New(ms, lifecycle.WithNotifier(s.notifier))
	stale, err := models.NewMatch(id.NewMatchID(), "x", s.now.Add(-2*time.Hour), 60, s.creator, s.now)
	s.Require().NoError(err)
	stale.Status = models.MatchStatusInProgress
	fresh := *stale
	fresh.Status = models.MatchStatusFinished

	ms.EXPECT().RunInTx(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	gomock.InOrder(
		ms.EXPECT().FindMatchByID(gomock.Any(), stale.ID).Return(stale, nil),
		ms.EXPECT().UpdateMatchStatus(gomock.Any(), stale.ID, models.MatchStatusInProgress, models.MatchStatusCancelled, s.now).
			Return(sentinel.ErrConflict),
		ms.EXPECT().FindMatchByID(gomock.Any(), stale.ID).Return(&fresh, nil),
		ms.EXPECT().UpdateMatchStatus(gomock.Any(), stale.ID, models.MatchStatusFinished, models.MatchStatusCancelled, s.now).
			Return(nil),
	)
	s.expectStatusEvent(stale.ID, models.MatchStatusFinished, models.MatchStatusCancelled)

	got, err := svc.ChangeStatus(s.ctx(), stale.ID, models.MatchStatusCancelled, nil)
	s.Require().NoError(err)
	s.Equal(models.MatchStatusCancelled, got.Status)
}

func (s *LifecycleSuite) TestPersistentConflictIsReported() {
	ms := mocks.NewMockStore(s.ctrl)
	svc := lifecycle.New(ms, lifecycle.WithNotifier(s.notifier))
	m, err := models.NewMatch(id.NewMatchID(), "x", s.now, 60, s.creator, s.now)
	s.Require().NoError(err)

	ms.EXPECT().RunInTx(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	ms.EXPECT().FindMatchByID(gomock.Any(), m.ID).AnyTimes().Return(m, nil)
	ms.EXPECT().UpdateMatchStatus(gomock.Any(), m.ID, gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().
		Return(sentinel.ErrConflict)

	_, err = svc.ChangeStatus(s.ctx(), m.ID, models.MatchStatusOpen, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

// racingStore runs beforeWrite once, after the service has read the match and
// before it writes, standing in for a request that lands in between.
type racingStore struct {
	*store.InMemory
	once        sync.Once
	beforeWrite func()
}

func (r *racingStore) UpdateMatchStatus(ctx context.Context, matchID id.MatchID, from, to models.MatchStatus, at time.Time) error {
	r.once.Do(r.beforeWrite)
	return r.InMemory.UpdateMatchStatus(ctx, matchID, from, to, at)
}

func (s *LifecycleSuite) TestCancelDuringAutoFinishWins() {
	m := s.createMatch(s.now.Add(-2*time.Hour), models.MatchStatusOpen)
	racing := &racingStore{InMemory: s.store, beforeWrite: func() {
		_, err := lifecycle.New(s.store).ChangeStatus(s.ctx(), m.ID, models.MatchStatusCancelled, &s.creator)
		s.Require().NoError(err)
	}}
	// No status event and no feedback request are expected.
	svc := lifecycle.New(racing,
		lifecycle.WithNotifier(s.notifier),
		lifecycle.WithFeedbackRequester(s.feedback),
	)

	finished, err := svc.AutoFinish(s.ctx(), m.ID)
	s.Require().NoError(err)
	s.False(finished)

	stored, err := s.store.FindMatchByID(context.Background(), m.ID)
	s.Require().NoError(err)
	s.Equal(models.MatchStatusCancelled, stored.Status)
}
