package models

import (
	"strings"

	dErrors "matchday/pkg/domain-errors"
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	MatchStatusDraft      MatchStatus = "draft"
	MatchStatusOpen       MatchStatus = "open"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// userTransitions is the table ChangeStatus enforces. Finished is a source
// here but never a target: only the auto-finish sweep moves a match into it.
var userTransitions = map[MatchStatus][]MatchStatus{
	MatchStatusDraft:      {MatchStatusOpen, MatchStatusCancelled},
	MatchStatusOpen:       {MatchStatusInProgress, MatchStatusCancelled},
	MatchStatusInProgress: {MatchStatusCompleted, MatchStatusCancelled},
	MatchStatusFinished:   {MatchStatusCompleted, MatchStatusCancelled},
}

// ParseMatchStatus parses a wire value. Finished is accepted so reads round-trip.
func ParseMatchStatus(s string) (MatchStatus, error) {
	st := MatchStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown match status %q", s)
	}
	return st, nil
}

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusDraft, MatchStatusOpen, MatchStatusInProgress,
		MatchStatusFinished, MatchStatusCompleted, MatchStatusCancelled:
		return true
	}
	return false
}

func (s MatchStatus) String() string { return string(s) }

// CanTransitionTo reports whether a user-requested transition is legal.
func (s MatchStatus) CanTransitionTo(target MatchStatus) bool {
	for _, allowed := range userTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist.
func (s MatchStatus) IsTerminal() bool {
	return len(userTransitions[s]) == 0
}

// CanAutoFinish reports whether the sweep may move this status to Finished.
func (s MatchStatus) CanAutoFinish() bool {
	return s == MatchStatusOpen || s == MatchStatusInProgress
}

// AttendanceStatus is the confirmation state of a player at a match.
type AttendanceStatus string

const (
	AttendanceNotConfirmed AttendanceStatus = "not_confirmed"
	AttendanceConfirmed    AttendanceStatus = "confirmed"
)

// ConfirmationMethod records how attendance was confirmed.
type ConfirmationMethod string

const (
	ConfirmationByCode   ConfirmationMethod = "code"
	ConfirmationManually ConfirmationMethod = "manual"
)

// SubmissionStatus is set only by final reconciliation.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// ResultStatus is the consensus state of a match result.
type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultTemporary ResultStatus = "temporary"
	ResultConfirmed ResultStatus = "confirmed"
	ResultDisputed  ResultStatus = "disputed"
)

// IsSettleable reports whether the confirmation sweep should look at the result.
func (s ResultStatus) IsSettleable() bool {
	return s == ResultPending || s == ResultTemporary
}
