package models

import (
	"time"

	id "matchday/pkg/domain"
)

// SystemSubmitter is the submitter id recorded for administrative overrides.
var SystemSubmitter = id.UserID{}

// ScoreSubmission is one participant's report of the final score.
// Everything except Status is immutable after creation.
type ScoreSubmission struct {
	ID          id.SubmissionID  `json:"id"`
	MatchID     id.MatchID       `json:"match_id"`
	SubmitterID id.UserID        `json:"submitter_id"`
	Team1ID     id.TeamID        `json:"team1_id"`
	Team2ID     id.TeamID        `json:"team2_id"`
	Team1Score  int              `json:"team1_score"`
	Team2Score  int              `json:"team2_score"`
	Status      SubmissionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// IsSystem reports whether the submission was written by an administrative override.
func (s *ScoreSubmission) IsSystem() bool {
	return s.SubmitterID == SystemSubmitter
}

// Oriented returns the submission's scores in the pair's canonical order.
// The caller guarantees both team ids belong to pair.
func (s *ScoreSubmission) Oriented(pair TeamPair) Scoreline {
	if s.Team1ID == pair.First.ID {
		return Scoreline{First: s.Team1Score, Second: s.Team2Score}
	}
	return Scoreline{First: s.Team2Score, Second: s.Team1Score}
}
