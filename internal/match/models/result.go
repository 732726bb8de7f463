package models

import (
	"time"

	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
)

// Scoreline is a pair of scores in canonical team order.
type Scoreline struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// Winner returns the team with the strictly higher score, or nil on a draw.
func (s Scoreline) Winner(pair TeamPair) *id.TeamID {
	switch {
	case s.First > s.Second:
		winner := pair.First.ID
		return &winner
	case s.Second > s.First:
		winner := pair.Second.ID
		return &winner
	default:
		return nil
	}
}

// Result is the single authoritative outcome of a match.
//
// Invariants:
//   - One Result per match
//   - Team1Score belongs to the lower-numbered team
//   - A Confirmed result is never modified again
type Result struct {
	ID            id.ResultID  `json:"id"`
	MatchID       id.MatchID   `json:"match_id"`
	Status        ResultStatus `json:"status"`
	Team1Score    int          `json:"team1_score"`
	Team2Score    int          `json:"team2_score"`
	WinningTeamID *id.TeamID   `json:"winning_team_id"`
	CreatedAt     time.Time    `json:"created_at"`
	ConfirmedAt   *time.Time   `json:"confirmed_at,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewResult builds an empty Pending result.
func NewResult(matchID id.MatchID, now time.Time) *Result {
	return &Result{
		ID:        id.NewResultID(),
		MatchID:   matchID,
		Status:    ResultPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *Result) IsConfirmed() bool {
	return r.Status == ResultConfirmed
}

// Scoreline returns the stored scores.
func (r *Result) Scoreline() Scoreline {
	return Scoreline{First: r.Team1Score, Second: r.Team2Score}
}

// CanModify rejects any change to a confirmed result.
func (r *Result) CanModify() error {
	if r.IsConfirmed() {
		return dErrors.New(dErrors.CodeResultAlreadyConfirmed, "match result is already confirmed")
	}
	return nil
}

// ApplyTemporary overwrites the result with a provisional score.
func (r *Result) ApplyTemporary(score Scoreline, winner *id.TeamID, now time.Time) {
	r.Team1Score = score.First
	r.Team2Score = score.Second
	r.WinningTeamID = winner
	r.Status = ResultTemporary
	r.UpdatedAt = now
}

// ApplyConfirmed finalizes the result.
func (r *Result) ApplyConfirmed(score Scoreline, winner *id.TeamID, now time.Time) {
	r.Team1Score = score.First
	r.Team2Score = score.Second
	r.WinningTeamID = winner
	r.Status = ResultConfirmed
	r.ConfirmedAt = &now
	r.UpdatedAt = now
}

// ApplyDisputed records that too few submissions existed to finalize.
func (r *Result) ApplyDisputed(now time.Time) {
	r.Status = ResultDisputed
	r.UpdatedAt = now
}
