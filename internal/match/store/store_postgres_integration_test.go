//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"matchday/internal/match/models"
	"matchday/internal/match/store"
	id "matchday/pkg/domain"
	"matchday/pkg/platform/sentinel"
	"matchday/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx,
		"match_score_submissions", "match_results", "match_attendance",
		"match_participants", "match_teams", "feedback_requests", "matches")
	s.Require().NoError(err)
	// Postgres keeps microseconds.
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) createMatch(start time.Time, status models.MatchStatus) *models.Match {
	m, err := models.NewMatch(id.NewMatchID(), "Integration match", start, 60, id.UserID(uuid.New()), s.now)
	s.Require().NoError(err)
	m.Status = status
	s.Require().NoError(s.store.CreateMatch(context.Background(), m))
	return m
}

func (s *PostgresStoreSuite) addTeams(matchID id.MatchID) (*models.Team, *models.Team) {
	ctx := context.Background()
	home := &models.Team{ID: id.NewTeamID(), MatchID: matchID, TeamNumber: 1, Name: "Home"}
	away := &models.Team{ID: id.NewTeamID(), MatchID: matchID, TeamNumber: 2, Name: "Away"}
	s.Require().NoError(s.store.AddTeam(ctx, home))
	s.Require().NoError(s.store.AddTeam(ctx, away))
	return home, away
}

func (s *PostgresStoreSuite) TestMatchRoundTrip() {
	ctx := context.Background()
	m := s.createMatch(s.now.Add(30*time.Minute), models.MatchStatusOpen)

	expiry := m.StartDate.Add(2 * time.Hour)
	s.Require().NoError(s.store.UpdateMatchCode(ctx, m.ID, "", "042042", expiry, s.now))

	found, err := s.store.FindMatchByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(m.Title, found.Title)
	s.Equal("042042", found.CurrentCode())
	s.True(found.CodeExpiryTime.Equal(expiry))
	s.True(found.StartDate.Equal(m.StartDate))

	_, err = s.store.FindMatchByID(ctx, id.NewMatchID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	batch, err := s.store.FindMatchesByIDs(ctx, []id.MatchID{m.ID, id.NewMatchID()})
	s.Require().NoError(err)
	s.Len(batch, 1)
}

func (s *PostgresStoreSuite) TestMatchWritesAreCompareAndSet() {
	ctx := context.Background()
	m := s.createMatch(s.now.Add(30*time.Minute), models.MatchStatusOpen)

	s.Require().NoError(s.store.UpdateMatchStatus(ctx, m.ID, models.MatchStatusOpen, models.MatchStatusCancelled, s.now))
	err := s.store.UpdateMatchStatus(ctx, m.ID, models.MatchStatusOpen, models.MatchStatusFinished, s.now)
	s.ErrorIs(err, sentinel.ErrConflict)

	expiry := m.StartDate.Add(2 * time.Hour)
	s.Require().NoError(s.store.UpdateMatchCode(ctx, m.ID, "", "123456", expiry, s.now))
	s.ErrorIs(s.store.UpdateMatchCode(ctx, m.ID, "", "654321", expiry, s.now), sentinel.ErrConflict)
	s.Require().NoError(s.store.UpdateMatchCode(ctx, m.ID, "123456", "654321", expiry, s.now))

	found, err := s.store.FindMatchByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(models.MatchStatusCancelled, found.Status)
	s.Equal("654321", found.CurrentCode())

	err = s.store.UpdateMatchStatus(ctx, id.NewMatchID(), models.MatchStatusOpen, models.MatchStatusCancelled, s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSweepQueries() {
	ctx := context.Background()
	needing := s.createMatch(s.now.Add(20*time.Minute), models.MatchStatusOpen)
	s.createMatch(s.now.Add(90*time.Minute), models.MatchStatusOpen)
	ended := s.createMatch(s.now.Add(-2*time.Hour), models.MatchStatusInProgress)
	s.createMatch(s.now.Add(-2*time.Hour), models.MatchStatusCancelled)

	got, err := s.store.ListMatchesNeedingCodes(ctx, s.now, s.now.Add(time.Hour), s.now)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(needing.ID, got[0].ID)

	past, err := s.store.ListMatchesPastEnd(ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(past, 1)
	s.Equal(ended.ID, past[0].ID)
}

func (s *PostgresStoreSuite) TestTeamsAndParticipants() {
	ctx := context.Background()
	m := s.createMatch(s.now.Add(time.Hour), models.MatchStatusOpen)
	home, _ := s.addTeams(m.ID)

	err := s.store.AddTeam(ctx, &models.Team{ID: id.NewTeamID(), MatchID: m.ID, TeamNumber: 1, Name: "Dup"})
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	teams, err := s.store.ListTeams(ctx, m.ID)
	s.Require().NoError(err)
	s.Require().Len(teams, 2)
	s.Equal(1, teams[0].TeamNumber)

	player := id.UserID(uuid.New())
	p := &models.Participant{MatchID: m.ID, UserID: player, TeamID: &home.ID, JoinedAt: s.now}
	s.Require().NoError(s.store.AddParticipant(ctx, p))
	s.Require().NoError(s.store.AddParticipant(ctx, p))

	ok, err := s.store.IsParticipant(ctx, m.ID, player)
	s.Require().NoError(err)
	s.True(ok)

	participants, err := s.store.ListParticipants(ctx, m.ID)
	s.Require().NoError(err)
	s.Require().Len(participants, 1)
	s.Equal(home.ID, *participants[0].TeamID)
}

// TestConcurrentAttendanceCreatesOneRow races first confirmations for one player.
func (s *PostgresStoreSuite) TestConcurrentAttendanceCreatesOneRow() {
	ctx := context.Background()
	m := s.createMatch(s.now.Add(time.Hour), models.MatchStatusOpen)
	player := id.UserID(uuid.New())
	const goroutines = 20

	var wg sync.WaitGroup
	var failures atomic.Int32
	ids := make([]id.AttendanceID, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := s.store.GetOrCreateAttendance(ctx, m.ID, player, s.now)
			if err != nil {
				failures.Add(1)
				return
			}
			ids[i] = a.ID
		}(i)
	}
	wg.Wait()

	s.Equal(int32(0), failures.Load())
	for _, got := range ids {
		s.Equal(ids[0], got)
	}

	a, err := s.store.GetOrCreateAttendance(ctx, m.ID, player, s.now)
	s.Require().NoError(err)
	a.ApplyManualConfirmation(m.CreatorID, s.now)
	s.Require().NoError(s.store.UpdateAttendance(ctx, a))

	count, err := s.store.CountConfirmedAttendance(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestResultsAndSubmissions() {
	ctx := context.Background()
	m := s.createMatch(s.now.Add(-26*time.Hour), models.MatchStatusFinished)
	home, away := s.addTeams(m.ID)

	first, err := s.store.GetOrCreateResult(ctx, m.ID, s.now)
	s.Require().NoError(err)
	second, err := s.store.GetOrCreateResult(ctx, m.ID, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(models.ResultPending, second.Status)

	submitter := id.UserID(uuid.New())
	sub := &models.ScoreSubmission{
		ID: id.NewSubmissionID(), MatchID: m.ID, SubmitterID: submitter,
		Team1ID: home.ID, Team2ID: away.ID, Team1Score: 2, Team2Score: 1,
		Status: models.SubmissionPending, CreatedAt: s.now,
	}
	s.Require().NoError(s.store.CreateSubmission(ctx, sub))

	dup := *sub
	dup.ID = id.NewSubmissionID()
	s.ErrorIs(s.store.CreateSubmission(ctx, &dup), sentinel.ErrAlreadyUsed)

	unsettled, err := s.store.ListUnsettledResults(ctx, s.now.Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Require().Len(unsettled, 1)

	s.Require().NoError(s.store.UpdateSubmissionStatuses(ctx, m.ID,
		map[id.SubmissionID]models.SubmissionStatus{sub.ID: models.SubmissionAccepted}))
	subs, err := s.store.ListSubmissions(ctx, m.ID)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Equal(models.SubmissionAccepted, subs[0].Status)

	first.ApplyConfirmed(models.Scoreline{First: 2, Second: 1}, &home.ID, s.now)
	s.Require().NoError(s.store.UpdateResult(ctx, first))

	found, err := s.store.FindResultByMatch(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(models.ResultConfirmed, found.Status)
	s.Equal(home.ID, *found.WinningTeamID)
	s.Require().NotNil(found.ConfirmedAt)

	found.ApplyTemporary(models.Scoreline{First: 0, Second: 5}, &away.ID, s.now)
	s.ErrorIs(s.store.UpdateResult(ctx, found), sentinel.ErrInvalidState)

	unsettled, err = s.store.ListUnsettledResults(ctx, s.now)
	s.Require().NoError(err)
	s.Empty(unsettled)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	ctx := context.Background()
	m, err := models.NewMatch(id.NewMatchID(), "Rolled back", s.now, 60, id.UserID(uuid.New()), s.now)
	s.Require().NoError(err)

	boom := errors.New("boom")
	err = s.store.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateMatch(txCtx, m); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.FindMatchByID(ctx, m.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
