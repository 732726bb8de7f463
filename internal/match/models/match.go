package models

import (
	"strings"
	"time"

	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
)

// Match is the aggregate root for a scheduled game.
//
// Invariants:
//   - Title is non-empty and at most 200 characters
//   - DurationMinutes is positive
//   - VerificationCode and CodeExpiryTime are set together
//   - CodeExpiryTime, once set, is never before StartDate
//   - Status changes follow MatchStatus.CanTransitionTo, except the
//     auto-finish path (Open|InProgress -> Finished)
type Match struct {
	ID               id.MatchID  `json:"id"`
	Title            string      `json:"title"`
	StartDate        time.Time   `json:"start_date"`
	DurationMinutes  int         `json:"duration_minutes"`
	Status           MatchStatus `json:"status"`
	VerificationCode *string     `json:"-"`
	CodeExpiryTime   *time.Time  `json:"code_expiry_time,omitempty"`
	CreatorID        id.UserID   `json:"creator_id"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func NewMatch(matchID id.MatchID, title string, start time.Time, durationMinutes int, creatorID id.UserID, now time.Time) (*Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "match title cannot be empty")
	}
	if len(title) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "match title must be 200 characters or less")
	}
	if durationMinutes <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "match duration must be positive")
	}
	if creatorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "match creator is required")
	}
	return &Match{
		ID:              matchID,
		Title:           title,
		StartDate:       start,
		DurationMinutes: durationMinutes,
		Status:          MatchStatusDraft,
		CreatorID:       creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// EndTime is the computed end of play.
func (m *Match) EndTime() time.Time {
	return m.StartDate.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

func (m *Match) IsCreator(userID id.UserID) bool {
	return m.CreatorID == userID
}

// HasValidCode reports whether a code exists and has not expired at now.
func (m *Match) HasValidCode(now time.Time) bool {
	return m.VerificationCode != nil && m.CodeExpiryTime != nil && !now.After(*m.CodeExpiryTime)
}

// CanChangeStatus checks a user-requested transition.
func (m *Match) CanChangeStatus(target MatchStatus) error {
	if !m.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvalidStateTransition,
			"cannot transition match from %s to %s", m.Status, target)
	}
	return nil
}

// ApplyStatus sets the status. Call CanChangeStatus or CanAutoFinish first.
func (m *Match) ApplyStatus(target MatchStatus, now time.Time) {
	m.Status = target
	m.UpdatedAt = now
}

// CanAutoFinish reports whether the match is due to be moved to Finished at now.
func (m *Match) CanAutoFinish(now time.Time) bool {
	return m.Status.CanAutoFinish() && !m.EndTime().After(now)
}

// ApplyCode stores a freshly generated code.
func (m *Match) ApplyCode(code string, expiry, now time.Time) {
	m.VerificationCode = &code
	m.CodeExpiryTime = &expiry
	m.UpdatedAt = now
}

// CurrentCode returns the stored code, or "" if none.
func (m *Match) CurrentCode() string {
	if m.VerificationCode == nil {
		return ""
	}
	return *m.VerificationCode
}

// Participant is a user who joined a match, optionally on a team.
type Participant struct {
	MatchID  id.MatchID `json:"match_id"`
	UserID   id.UserID  `json:"user_id"`
	TeamID   *id.TeamID `json:"team_id,omitempty"`
	JoinedAt time.Time  `json:"joined_at"`
}
