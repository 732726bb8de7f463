package finalizer_test

//go:generate mockgen -source=finalizer.go -destination=mocks/mocks.go -package=mocks Store,CodeIssuer,Finisher,ResultFinalizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	feedbackservice "matchday/internal/feedback/service"
	feedbackstore "matchday/internal/feedback/store"
	"matchday/internal/match/finalizer"
	"matchday/internal/match/finalizer/mocks"
	"matchday/internal/match/lifecycle"
	"matchday/internal/match/models"
	"matchday/internal/match/result"
	"matchday/internal/match/roster"
	"matchday/internal/match/store"
	id "matchday/pkg/domain"
	"matchday/pkg/requestcontext"
)

type SweepSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	codes    *mocks.MockCodeIssuer
	finisher *mocks.MockFinisher
	results  *mocks.MockResultFinalizer
	sweeps   *finalizer.Sweeps
	now      time.Time
}

func TestSweepSuite(t *testing.T) {
	suite.Run(t, new(SweepSuite))
}

func (s *SweepSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.codes = mocks.NewMockCodeIssuer(s.ctrl)
	s.finisher = mocks.NewMockFinisher(s.ctrl)
	s.results = mocks.NewMockResultFinalizer(s.ctrl)
	s.sweeps = finalizer.New(s.store, s.codes, s.finisher, s.results)
	s.now = time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)
}

func (s *SweepSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func matchesWithIDs(ids ...id.MatchID) []*models.Match {
	out := make([]*models.Match, 0, len(ids))
	for _, matchID := range ids {
		out = append(out, &models.Match{ID: matchID})
	}
	return out
}

func (s *SweepSuite) TestIssueCodesQueriesTheCodeWindow() {
	a, b := id.NewMatchID(), id.NewMatchID()
	s.store.EXPECT().ListMatchesNeedingCodes(gomock.Any(), s.now, s.now.Add(60*time.Minute), s.now).
		Return(matchesWithIDs(a, b), nil)
	s.codes.EXPECT().GetOrGenerateCode(gomock.Any(), a).Return("", time.Time{}, errors.New("boom"))
	s.codes.EXPECT().GetOrGenerateCode(gomock.Any(), b).Return("123456", s.now.Add(2*time.Hour), nil)

	report, err := s.sweeps.IssueCodes(s.ctx())
	s.Require().NoError(err)
	s.Equal(finalizer.SweepReport{Sweep: finalizer.SweepIssueCodes, Candidates: 2, Processed: 1, Failed: 1}, report)
}

func (s *SweepSuite) TestAutoFinishIsolatesFailures() {
	a, b, c := id.NewMatchID(), id.NewMatchID(), id.NewMatchID()
	s.store.EXPECT().ListMatchesPastEnd(gomock.Any(), s.now).Return(matchesWithIDs(a, b, c), nil)
	s.finisher.EXPECT().AutoFinish(gomock.Any(), a).Return(false, errors.New("db gone"))
	s.finisher.EXPECT().AutoFinish(gomock.Any(), b).Return(true, nil)
	s.finisher.EXPECT().AutoFinish(gomock.Any(), c).Return(false, nil)

	report, err := s.sweeps.AutoFinish(s.ctx())
	s.Require().NoError(err)
	s.Equal(1, report.Processed)
	s.Equal(1, report.Skipped)
	s.Equal(1, report.Failed)
}

func (s *SweepSuite) TestConfirmResultsWidensQueryBySlack() {
	matchID := id.NewMatchID()
	s.store.EXPECT().ListUnsettledResults(gomock.Any(), s.now.Add(-24*time.Hour).Add(3*time.Hour)).
		Return([]*models.Result{{ID: id.NewResultID(), MatchID: matchID}}, nil)
	s.results.EXPECT().Finalize(gomock.Any(), matchID).Return(result.OutcomeDisputed, nil)

	report, err := s.sweeps.ConfirmResults(s.ctx())
	s.Require().NoError(err)
	s.Equal(1, report.Processed)
}

func (s *SweepSuite) TestListFailureFailsTheSweep() {
	s.store.EXPECT().ListMatchesPastEnd(gomock.Any(), s.now).Return(nil, errors.New("timeout"))

	_, err := s.sweeps.AutoFinish(s.ctx())
	s.Error(err)
}

func (s *SweepSuite) TestSchedulerStampsBatchTime() {
	s.store.EXPECT().ListMatchesNeedingCodes(gomock.Any(), s.now, gomock.Any(), s.now).Return(nil, nil)
	s.store.EXPECT().ListMatchesPastEnd(gomock.Any(), s.now).Return(nil, nil)
	s.store.EXPECT().ListUnsettledResults(gomock.Any(), gomock.Any()).Return(nil, nil)

	scheduler := finalizer.NewScheduler(s.sweeps, finalizer.WithClock(func() time.Time { return s.now }))
	reports := scheduler.RunOnce(context.Background())
	s.Len(reports, 3)
}

func (s *SweepSuite) TestSchedulerStopsOnCancel() {
	s.store.EXPECT().ListMatchesNeedingCodes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.store.EXPECT().ListMatchesPastEnd(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.store.EXPECT().ListUnsettledResults(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	scheduler := finalizer.NewScheduler(s.sweeps, finalizer.WithIntervals(finalizer.Intervals{
		IssueCodes:     10 * time.Millisecond,
		AutoFinish:     10 * time.Millisecond,
		ConfirmResults: 10 * time.Millisecond,
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("scheduler did not stop")
	}
}

// End-to-end sweeps over the in-memory store with the real services.
func TestSweepsAgainstServices(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemory()
	start := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)

	m, err := models.NewMatch(id.NewMatchID(), "Sunday league", start, 90, id.UserID(uuid.New()), start.Add(-48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	m.Status = models.MatchStatusInProgress
	if err := st.CreateMatch(ctx, m); err != nil {
		t.Fatal(err)
	}
	home := &models.Team{ID: id.NewTeamID(), MatchID: m.ID, TeamNumber: 1}
	away := &models.Team{ID: id.NewTeamID(), MatchID: m.ID, TeamNumber: 2}
	players := []id.UserID{id.UserID(uuid.New()), id.UserID(uuid.New())}
	for _, team := range []*models.Team{home, away} {
		if err := st.AddTeam(ctx, team); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range players {
		if err := st.AddParticipant(ctx, &models.Participant{MatchID: m.ID, UserID: p, JoinedAt: start}); err != nil {
			t.Fatal(err)
		}
	}

	rosters := roster.New(st)
	feedback := feedbackservice.New(feedbackstore.NewInMemory(), rosters)
	results := result.New(st, rosters)
	life := lifecycle.New(st, lifecycle.WithFeedbackRequester(feedback))
	sweeps := finalizer.New(st, nopCodes{}, life, results)
	end := m.EndTime()
	at := func(d time.Duration) context.Context { return requestcontext.WithTime(ctx, end.Add(d)) }

	report, err := sweeps.AutoFinish(at(time.Minute))
	if err != nil || report.Processed != 1 {
		t.Fatalf("auto finish: report=%+v err=%v", report, err)
	}
	requests, err := feedback.ForMatch(ctx, m.ID)
	if err != nil || len(requests) != len(players) {
		t.Fatalf("feedback requests: got %d err=%v", len(requests), err)
	}
	for _, p := range players {
		if _, _, err := results.Submit(at(time.Hour), result.SubmitScore{
			MatchID: m.ID, SubmitterID: p, Team1ID: home.ID, Team2ID: away.ID, Team1Score: 1, Team2Score: 0,
		}); err != nil {
			t.Fatal(err)
		}
	}

	report, err = sweeps.ConfirmResults(at(23 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if report.Candidates != 1 || report.Skipped != 1 {
		t.Fatalf("expected the T+23h sweep to skip the result, got %+v", report)
	}

	report, err = sweeps.ConfirmResults(at(25 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if report.Processed != 1 {
		t.Fatalf("expected the T+25h sweep to confirm the result, got %+v", report)
	}
	view, err := results.GetResult(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Result.Status != models.ResultConfirmed {
		t.Fatalf("result status = %s, want confirmed", view.Result.Status)
	}
}

type nopCodes struct{}

func (nopCodes) GetOrGenerateCode(context.Context, id.MatchID) (string, time.Time, error) {
	return "", time.Time{}, nil
}
