package models

import (
	"time"

	id "matchday/pkg/domain"
)

// RequestStatus tracks whether a player answered a feedback request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestCompleted RequestStatus = "completed"
)

// Request asks one participant to rate a finished match.
// There is at most one per (match, user).
type Request struct {
	ID          id.FeedbackID `json:"id"`
	MatchID     id.MatchID    `json:"match_id"`
	UserID      id.UserID     `json:"user_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

func NewRequest(matchID id.MatchID, userID id.UserID, now time.Time) *Request {
	return &Request{
		ID:        id.NewFeedbackID(),
		MatchID:   matchID,
		UserID:    userID,
		Status:    RequestPending,
		CreatedAt: now,
	}
}

func (r *Request) IsPending() bool {
	return r.Status == RequestPending
}
