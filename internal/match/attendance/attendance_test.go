package attendance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"matchday/internal/match/attendance"
	"matchday/internal/match/lifecycle"
	"matchday/internal/match/models"
	"matchday/internal/match/store"
	"matchday/internal/notification"
	notificationmocks "matchday/internal/notification/mocks"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/requestcontext"
)

// racingStore runs beforeWrite once, after the service has read the match and
// before it stores a code, standing in for a request that lands in between.
type racingStore struct {
	*store.InMemory
	once        sync.Once
	beforeWrite func()
}

func (r *racingStore) UpdateMatchCode(ctx context.Context, matchID id.MatchID, previous, code string, expiry, at time.Time) error {
	r.once.Do(r.beforeWrite)
	return r.InMemory.UpdateMatchCode(ctx, matchID, previous, code, expiry, at)
}

// sequenceCodes hands out codes in order, skipping the previous one like the real generator.
type sequenceCodes struct {
	codes []string
}

func (g *sequenceCodes) Generate(previous string) string {
	for {
		code := g.codes[0]
		g.codes = g.codes[1:]
		if code != previous {
			return code
		}
	}
}

type AttendanceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *store.InMemory
	notifier *notificationmocks.MockNotifier
	service  *attendance.Service
	start    time.Time
	creator  id.UserID
	match    *models.Match
}

func TestAttendanceSuite(t *testing.T) {
	suite.Run(t, new(AttendanceSuite))
}

func (s *AttendanceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.notifier = notificationmocks.NewMockNotifier(s.ctrl)
	s.service = attendance.New(s.store,
		attendance.WithNotifier(s.notifier),
		attendance.WithCodeGenerator(&sequenceCodes{codes: []string{"123456", "123456", "654321", "777777"}}),
	)
	s.start = time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)
	s.creator = id.UserID(uuid.New())

	m, err := models.NewMatch(id.NewMatchID(), "Thursday night", s.start, 90, s.creator, s.start.Add(-72*time.Hour))
	s.Require().NoError(err)
	m.Status = models.MatchStatusOpen
	s.Require().NoError(s.store.CreateMatch(context.Background(), m))
	s.match = m
}

func (s *AttendanceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *AttendanceSuite) expectKinds(kind notification.Kind, times int) {
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(times).
		Do(func(_ context.Context, e notification.Event) {
			s.Equal(kind, e.Kind)
		})
}

func (s *AttendanceSuite) TestGetOrGenerateCode() {
	s.Run("too early is rejected", func() {
		_, _, err := s.service.GetOrGenerateCode(s.at(s.start.Add(-61*time.Minute)), s.match.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeCodeNotYetAvailable))
	})

	s.Run("two calls in the window return the same code and expiry", func() {
		s.expectKinds(notification.KindCodeIssued, 1)

		code, expiry, err := s.service.GetOrGenerateCode(s.at(s.start.Add(-60*time.Minute)), s.match.ID)
		s.Require().NoError(err)
		s.Equal("123456", code)
		s.Equal(s.start.Add(120*time.Minute), expiry)

		again, againExpiry, err := s.service.GetOrGenerateCode(s.at(s.start.Add(-10*time.Minute)), s.match.ID)
		s.Require().NoError(err)
		s.Equal(code, again)
		s.Equal(expiry, againExpiry)
	})

	s.Run("after the window closes no new code is issued", func() {
		_, _, err := s.service.GetOrGenerateCode(s.at(s.start.Add(121*time.Minute)), s.match.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeAttendanceWindowClosed))
	})

	s.Run("unknown match", func() {
		_, _, err := s.service.GetOrGenerateCode(s.at(s.start), id.NewMatchID())
		s.True(dErrors.HasCode(err, dErrors.CodeMatchNotFound))
	})
}

func (s *AttendanceSuite) TestRegeneratedCodeDiffersFromPrevious() {
	s.expectKinds(notification.KindCodeIssued, 2)
	previous := s.start.Add(-30 * time.Minute)
	stale := "123456"
	expired := s.start.Add(-time.Minute)
	// A code that expired before kickoff, which the service never issues itself.
	s.Require().NoError(s.store.UpdateMatchCode(context.Background(), s.match.ID, "", stale, expired, previous))

	code, _, err := s.service.GetOrGenerateCode(s.at(s.start), s.match.ID)
	s.Require().NoError(err)
	s.Equal("654321", code)

	_, _, err = s.service.GetOrGenerateCode(s.at(s.start.Add(3*time.Hour)), s.match.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeAttendanceWindowClosed))

	m, err := s.store.FindMatchByID(context.Background(), s.match.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpdateMatchCode(context.Background(), m.ID, m.CurrentCode(), m.CurrentCode(), expired, s.start))
	code, _, err = s.service.GetOrGenerateCode(s.at(s.start), s.match.ID)
	s.Require().NoError(err)
	s.Equal("777777", code)
}

func (s *AttendanceSuite) TestCodeForCreator() {
	stranger := id.UserID(uuid.New())
	_, _, err := s.service.CodeForCreator(s.at(s.start), s.match.ID, stranger)
	s.True(dErrors.HasCode(err, dErrors.CodeNotMatchCreator))

	s.expectKinds(notification.KindCodeIssued, 1)
	code, _, err := s.service.CodeForCreator(s.at(s.start), s.match.ID, s.creator)
	s.Require().NoError(err)
	s.Len(code, 6)
}

func (s *AttendanceSuite) TestConfirmViaCode() {
	s.expectKinds(notification.KindCodeIssued, 1)
	code, expiry, err := s.service.GetOrGenerateCode(s.at(s.start.Add(-5*time.Minute)), s.match.ID)
	s.Require().NoError(err)
	player := id.UserID(uuid.New())

	s.Run("wrong code", func() {
		_, err := s.service.ConfirmViaCode(s.at(s.start), s.match.ID, "000000", player)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidCode))
	})

	s.Run("expired code", func() {
		_, err := s.service.ConfirmViaCode(s.at(expiry.Add(time.Second)), s.match.ID, code, player)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidCode))
	})

	s.Run("confirming twice keeps one row and one event", func() {
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1).
			Do(func(_ context.Context, e notification.Event) {
				s.Equal(notification.KindAttendanceConfirmed, e.Kind)
				s.Equal(player, *e.UserID)
				s.Equal("code", e.Attributes["method"])
			})

		first, err := s.service.ConfirmViaCode(s.at(s.start), s.match.ID, " "+code+" ", player)
		s.Require().NoError(err)
		s.True(first.IsConfirmed())
		s.Equal(models.ConfirmationByCode, *first.ConfirmationMethod)

		second, err := s.service.ConfirmViaCode(s.at(s.start.Add(time.Minute)), s.match.ID, code, player)
		s.Require().NoError(err)
		s.Equal(first.ID, second.ID)
		s.Equal(s.start, *second.ConfirmationTime)

		n, err := s.service.AttendanceCount(s.at(s.start), s.match.ID)
		s.Require().NoError(err)
		s.Equal(1, n)
	})
}

func (s *AttendanceSuite) TestConfirmViaCodeWithoutCode() {
	_, err := s.service.ConfirmViaCode(s.at(s.start), s.match.ID, "123456", id.UserID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCode))
}

func (s *AttendanceSuite) TestConcurrentConfirmationsCreateOneRow() {
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()
	code, _, err := s.service.GetOrGenerateCode(s.at(s.start), s.match.ID)
	s.Require().NoError(err)
	player := id.UserID(uuid.New())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ConfirmViaCode(s.at(s.start), s.match.ID, code, player)
			s.NoError(err)
		}()
	}
	wg.Wait()

	n, err := s.service.AttendanceCount(s.at(s.start), s.match.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *AttendanceSuite) TestConfirmManually() {
	player := id.UserID(uuid.New())

	s.Run("only the creator may confirm", func() {
		_, err := s.service.ConfirmManually(s.at(s.start), s.match.ID, player, id.UserID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotMatchCreator))
	})

	s.Run("creator confirmation records who vouched", func() {
		s.expectKinds(notification.KindAttendanceConfirmed, 1)
		a, err := s.service.ConfirmManually(s.at(s.start), s.match.ID, player, s.creator)
		s.Require().NoError(err)
		s.Equal(models.ConfirmationManually, *a.ConfirmationMethod)
		s.Equal(s.creator, *a.ConfirmedBy)
		s.Equal(models.AttendanceConfirmed, a.Status)
	})

	s.Run("count on unknown match", func() {
		_, err := s.service.AttendanceCount(s.at(s.start), id.NewMatchID())
		s.True(dErrors.HasCode(err, dErrors.CodeMatchNotFound))
	})
}

func (s *AttendanceSuite) TestCancelDuringCodeIssuanceStaysCancelled() {
	issueAt := s.at(s.start.Add(-30 * time.Minute))
	racing := &racingStore{InMemory: s.store, beforeWrite: func() {
		_, err := lifecycle.New(s.store).ChangeStatus(issueAt, s.match.ID, models.MatchStatusCancelled, &s.creator)
		s.Require().NoError(err)
	}}
	svc := attendance.New(racing,
		attendance.WithNotifier(s.notifier),
		attendance.WithCodeGenerator(&sequenceCodes{codes: []string{"123456"}}),
	)
	s.expectKinds(notification.KindCodeIssued, 1)

	code, _, err := svc.GetOrGenerateCode(issueAt, s.match.ID)
	s.Require().NoError(err)
	s.Equal("123456", code)

	stored, err := s.store.FindMatchByID(context.Background(), s.match.ID)
	s.Require().NoError(err)
	s.Equal(models.MatchStatusCancelled, stored.Status)
	s.Equal("123456", stored.CurrentCode())
}

func (s *AttendanceSuite) TestConcurrentlyIssuedCodeIsKept() {
	issueAt := s.start.Add(-30 * time.Minute)
	expiry := s.start.Add(120 * time.Minute)
	racing := &racingStore{InMemory: s.store, beforeWrite: func() {
		s.Require().NoError(s.store.UpdateMatchCode(context.Background(), s.match.ID, "", "999999", expiry, issueAt))
	}}
	// The losing writer issues nothing, so no event is expected.
	svc := attendance.New(racing,
		attendance.WithNotifier(s.notifier),
		attendance.WithCodeGenerator(&sequenceCodes{codes: []string{"123456"}}),
	)

	code, gotExpiry, err := svc.GetOrGenerateCode(s.at(issueAt), s.match.ID)
	s.Require().NoError(err)
	s.Equal("999999", code)
	s.Equal(expiry, gotExpiry)
}

func (s *AttendanceSuite) TestCodeCheckInReplacesManualConfirmation() {
	player := id.UserID(uuid.New())
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).AnyTimes()

	manual, err := s.service.ConfirmManually(s.at(s.start.Add(-10*time.Minute)), s.match.ID, player, s.creator)
	s.Require().NoError(err)
	s.Equal(models.ConfirmationManually, *manual.ConfirmationMethod)

	code, _, err := s.service.GetOrGenerateCode(s.at(s.start), s.match.ID)
	s.Require().NoError(err)
	viaCode, err := s.service.ConfirmViaCode(s.at(s.start.Add(5*time.Minute)), s.match.ID, code, player)
	s.Require().NoError(err)

	s.Equal(manual.ID, viaCode.ID)
	s.Equal(models.ConfirmationByCode, *viaCode.ConfirmationMethod)
	s.Equal(s.start.Add(5*time.Minute), *viaCode.ConfirmationTime)
	s.Nil(viaCode.ConfirmedBy)

	n, err := s.service.AttendanceCount(s.at(s.start), s.match.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}
