package handler

import (
	"strings"

	"matchday/internal/match/models"
	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
)

type ChangeStatusRequest struct {
	Status string `json:"status"`

	target models.MatchStatus
}

func (r *ChangeStatusRequest) Validate() error {
	target, err := models.ParseMatchStatus(r.Status)
	if err != nil {
		return err
	}
	r.target = target
	return nil
}

type ConfirmCodeRequest struct {
	Code string `json:"code"`
}

func (r *ConfirmCodeRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	return nil
}

type SubmitScoreRequest struct {
	Team1ID    string `json:"team1_id"`
	Team2ID    string `json:"team2_id"`
	Team1Score *int   `json:"team1_score"`
	Team2Score *int   `json:"team2_score"`

	team1 id.TeamID
	team2 id.TeamID
}

func (r *SubmitScoreRequest) Validate() error {
	var err error
	if r.team1, err = id.ParseTeamID(r.Team1ID); err != nil {
		return err
	}
	if r.team2, err = id.ParseTeamID(r.Team2ID); err != nil {
		return err
	}
	if r.Team1Score == nil || r.Team2Score == nil {
		return dErrors.New(dErrors.CodeValidation, "team1_score and team2_score are required")
	}
	return nil
}

// OverrideResultRequest leaves winning_team_id empty for a draw.
type OverrideResultRequest struct {
	WinningTeamID string `json:"winning_team_id,omitempty"`
	Team1Score    *int   `json:"team1_score,omitempty"`
	Team2Score    *int   `json:"team2_score,omitempty"`

	winner *id.TeamID
}

func (r *OverrideResultRequest) Validate() error {
	if r.WinningTeamID == "" {
		return nil
	}
	winner, err := id.ParseTeamID(r.WinningTeamID)
	if err != nil {
		return err
	}
	r.winner = &winner
	return nil
}
