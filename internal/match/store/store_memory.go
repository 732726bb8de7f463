// Package store persists the match aggregates: matches, teams, participants,
// attendance rows, results and score submissions.
//
// Stores are pure I/O. They return sentinel errors for infrastructure facts and
// leave every domain rule to the services.
package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"matchday/internal/match/models"
	id "matchday/pkg/domain"
	"matchday/pkg/platform/sentinel"
)

type attendanceKey struct {
	matchID  id.MatchID
	playerID id.UserID
}

// InMemory is a map-backed store used in development and unit tests.
// Values are copied on the way in and out so callers never share state.
type InMemory struct {
	mu            sync.RWMutex
	matches       map[id.MatchID]*models.Match
	teams         map[id.TeamID]*models.Team
	participants  map[id.MatchID]map[id.UserID]*models.Participant
	attendance    map[attendanceKey]*models.Attendance
	results       map[id.ResultID]*models.Result
	resultByMatch map[id.MatchID]id.ResultID
	submissions   map[id.MatchID][]*models.ScoreSubmission
}

func NewInMemory() *InMemory {
	return &InMemory{
		matches:       make(map[id.MatchID]*models.Match),
		teams:         make(map[id.TeamID]*models.Team),
		participants:  make(map[id.MatchID]map[id.UserID]*models.Participant),
		attendance:    make(map[attendanceKey]*models.Attendance),
		results:       make(map[id.ResultID]*models.Result),
		resultByMatch: make(map[id.MatchID]id.ResultID),
		submissions:   make(map[id.MatchID][]*models.ScoreSubmission),
	}
}

// RunInTx runs fn directly; per-match locking serializes writers in memory.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Ping always succeeds.
func (s *InMemory) Ping(context.Context) error { return nil }

// -----------------------------------------------------------------------------
// Matches
// -----------------------------------------------------------------------------

func (s *InMemory) CreateMatch(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.matches[m.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.matches[m.ID] = cloneMatch(m)
	return nil
}

func (s *InMemory) FindMatchByID(_ context.Context, matchID id.MatchID) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneMatch(m), nil
}

func (s *InMemory) FindMatchesByIDs(_ context.Context, matchIDs []id.MatchID) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Match, 0, len(matchIDs))
	for _, matchID := range matchIDs {
		if m, ok := s.matches[matchID]; ok {
			out = append(out, cloneMatch(m))
		}
	}
	return out, nil
}

// UpdateMatchStatus moves the match from one status to another. It fails with
// ErrConflict when the stored status is no longer from.
func (s *InMemory) UpdateMatchStatus(_ context.Context, matchID id.MatchID, from, to models.MatchStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if m.Status != from {
		return sentinel.ErrConflict
	}
	m.Status = to
	m.UpdatedAt = at
	return nil
}

// UpdateMatchCode replaces the code and its expiry, leaving status alone. It
// fails with ErrConflict when the stored code is no longer previous ("" for none).
func (s *InMemory) UpdateMatchCode(_ context.Context, matchID id.MatchID, previous, code string, expiry, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if m.CurrentCode() != previous {
		return sentinel.ErrConflict
	}
	m.ApplyCode(code, expiry, at)
	return nil
}

// ListMatchesNeedingCodes returns Open matches starting in [from, to) with no
// code valid at now.
func (s *InMemory) ListMatchesNeedingCodes(_ context.Context, from, to, now time.Time) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Match
	for _, m := range s.matches {
		if m.Status != models.MatchStatusOpen {
			continue
		}
		if m.StartDate.Before(from) || !m.StartDate.Before(to) {
			continue
		}
		if m.HasValidCode(now) {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	sortMatches(out)
	return out, nil
}

// ListMatchesPastEnd returns Open or InProgress matches whose end is at or before now.
func (s *InMemory) ListMatchesPastEnd(_ context.Context, now time.Time) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Match
	for _, m := range s.matches {
		if m.CanAutoFinish(now) {
			out = append(out, cloneMatch(m))
		}
	}
	sortMatches(out)
	return out, nil
}

// -----------------------------------------------------------------------------
// Teams and participants
// -----------------------------------------------------------------------------

func (s *InMemory) AddTeam(_ context.Context, t *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[t.MatchID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.teams {
		if existing.MatchID == t.MatchID && existing.TeamNumber == t.TeamNumber {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *t
	s.teams[t.ID] = &cp
	return nil
}

func (s *InMemory) FindTeam(_ context.Context, teamID id.TeamID) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *InMemory) ListTeams(_ context.Context, matchID id.MatchID) ([]*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Team
	for _, t := range s.teams {
		if t.MatchID == matchID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamNumber < out[j].TeamNumber })
	return out, nil
}

// AddParticipant is idempotent per (match, user); the first join wins.
func (s *InMemory) AddParticipant(_ context.Context, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[p.MatchID]; !ok {
		return sentinel.ErrNotFound
	}
	byUser, ok := s.participants[p.MatchID]
	if !ok {
		byUser = make(map[id.UserID]*models.Participant)
		s.participants[p.MatchID] = byUser
	}
	if _, exists := byUser[p.UserID]; exists {
		return nil
	}
	cp := *p
	byUser[p.UserID] = &cp
	return nil
}

func (s *InMemory) IsParticipant(_ context.Context, matchID id.MatchID, userID id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.participants[matchID][userID]
	return ok, nil
}

func (s *InMemory) ListParticipants(_ context.Context, matchID id.MatchID) ([]*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Participant, 0, len(s.participants[matchID]))
	for _, p := range s.participants[matchID] {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

// -----------------------------------------------------------------------------
// Attendance
// -----------------------------------------------------------------------------

func (s *InMemory) GetOrCreateAttendance(_ context.Context, matchID id.MatchID, playerID id.UserID, now time.Time) (*models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attendanceKey{matchID: matchID, playerID: playerID}
	a, ok := s.attendance[key]
	if !ok {
		a = models.NewAttendance(matchID, playerID, now)
		s.attendance[key] = a
	}
	return cloneAttendance(a), nil
}

func (s *InMemory) UpdateAttendance(_ context.Context, a *models.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attendanceKey{matchID: a.MatchID, playerID: a.PlayerID}
	existing, ok := s.attendance[key]
	if !ok || existing.ID != a.ID {
		return sentinel.ErrNotFound
	}
	s.attendance[key] = cloneAttendance(a)
	return nil
}

func (s *InMemory) CountConfirmedAttendance(_ context.Context, matchID id.MatchID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for key, a := range s.attendance {
		if key.matchID == matchID && a.IsConfirmed() {
			count++
		}
	}
	return count, nil
}

// -----------------------------------------------------------------------------
// Results and submissions
// -----------------------------------------------------------------------------

func (s *InMemory) GetOrCreateResult(_ context.Context, matchID id.MatchID, now time.Time) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resultID, ok := s.resultByMatch[matchID]; ok {
		return cloneResult(s.results[resultID]), nil
	}
	if _, ok := s.matches[matchID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	r := models.NewResult(matchID, now)
	s.results[r.ID] = r
	s.resultByMatch[matchID] = r.ID
	return cloneResult(r), nil
}

func (s *InMemory) FindResultByID(_ context.Context, resultID id.ResultID) (*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[resultID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneResult(r), nil
}

func (s *InMemory) FindResultByMatch(_ context.Context, matchID id.MatchID) (*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resultID, ok := s.resultByMatch[matchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneResult(s.results[resultID]), nil
}

// UpdateResult returns sentinel.ErrInvalidState for a confirmed result.
func (s *InMemory) UpdateResult(_ context.Context, r *models.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.results[r.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if existing.IsConfirmed() {
		return sentinel.ErrInvalidState
	}
	s.results[r.ID] = cloneResult(r)
	return nil
}

// ListUnsettledResults returns Pending or Temporary results whose match ended
// at or before endedBefore.
func (s *InMemory) ListUnsettledResults(_ context.Context, endedBefore time.Time) ([]*models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Result
	for _, r := range s.results {
		if !r.Status.IsSettleable() {
			continue
		}
		m, ok := s.matches[r.MatchID]
		if !ok || m.EndTime().After(endedBefore) {
			continue
		}
		out = append(out, cloneResult(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// CreateSubmission returns sentinel.ErrAlreadyUsed if the submitter already
// submitted for the match.
func (s *InMemory) CreateSubmission(_ context.Context, sub *models.ScoreSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.submissions[sub.MatchID] {
		if existing.SubmitterID == sub.SubmitterID {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *sub
	s.submissions[sub.MatchID] = append(s.submissions[sub.MatchID], &cp)
	return nil
}

func (s *InMemory) ListSubmissions(_ context.Context, matchID id.MatchID) ([]*models.ScoreSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ScoreSubmission, 0, len(s.submissions[matchID]))
	for _, sub := range s.submissions[matchID] {
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) UpdateSubmissionStatuses(_ context.Context, matchID id.MatchID, statuses map[id.SubmissionID]models.SubmissionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.submissions[matchID] {
		if status, ok := statuses[sub.ID]; ok {
			sub.Status = status
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// copies
// -----------------------------------------------------------------------------

func cloneMatch(m *models.Match) *models.Match {
	cp := *m
	if m.VerificationCode != nil {
		code := *m.VerificationCode
		cp.VerificationCode = &code
	}
	if m.CodeExpiryTime != nil {
		expiry := *m.CodeExpiryTime
		cp.CodeExpiryTime = &expiry
	}
	return &cp
}

func cloneAttendance(a *models.Attendance) *models.Attendance {
	cp := *a
	if a.ConfirmationTime != nil {
		t := *a.ConfirmationTime
		cp.ConfirmationTime = &t
	}
	if a.ConfirmationMethod != nil {
		method := *a.ConfirmationMethod
		cp.ConfirmationMethod = &method
	}
	if a.ConfirmedBy != nil {
		by := *a.ConfirmedBy
		cp.ConfirmedBy = &by
	}
	return &cp
}

func cloneResult(r *models.Result) *models.Result {
	cp := *r
	if r.WinningTeamID != nil {
		winner := *r.WinningTeamID
		cp.WinningTeamID = &winner
	}
	if r.ConfirmedAt != nil {
		t := *r.ConfirmedAt
		cp.ConfirmedAt = &t
	}
	return &cp
}

func sortMatches(ms []*models.Match) {
	slices.SortFunc(ms, func(a, b *models.Match) int { return a.StartDate.Compare(b.StartDate) })
}
