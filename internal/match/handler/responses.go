package handler

import (
	"time"

	"matchday/internal/match/models"
)

type CodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AttendanceCountResponse struct {
	MatchID   string `json:"match_id"`
	Confirmed int    `json:"confirmed"`
}

type SubmitScoreResponse struct {
	Submission *models.ScoreSubmission `json:"submission"`
	Result     *models.Result          `json:"result"`
}
