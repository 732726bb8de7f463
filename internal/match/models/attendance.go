package models

import (
	"time"

	id "matchday/pkg/domain"
)

// Attendance is the one row per (match, player) tracking check-in.
type Attendance struct {
	ID                 id.AttendanceID     `json:"id"`
	MatchID            id.MatchID          `json:"match_id"`
	PlayerID           id.UserID           `json:"player_id"`
	ConfirmationTime   *time.Time          `json:"confirmation_time,omitempty"`
	ConfirmationMethod *ConfirmationMethod `json:"confirmation_method,omitempty"`
	ConfirmedBy        *id.UserID          `json:"confirmed_by,omitempty"`
	Status             AttendanceStatus    `json:"status"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// NewAttendance builds an unconfirmed row.
func NewAttendance(matchID id.MatchID, playerID id.UserID, now time.Time) *Attendance {
	return &Attendance{
		ID:        id.NewAttendanceID(),
		MatchID:   matchID,
		PlayerID:  playerID,
		Status:    AttendanceNotConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (a *Attendance) IsConfirmed() bool {
	return a.Status == AttendanceConfirmed
}

// ConfirmedVia reports whether the player is confirmed by method.
func (a *Attendance) ConfirmedVia(method ConfirmationMethod) bool {
	return a.IsConfirmed() && a.ConfirmationMethod != nil && *a.ConfirmationMethod == method
}

// ApplyCodeConfirmation marks the player present via the match code.
func (a *Attendance) ApplyCodeConfirmation(now time.Time) {
	method := ConfirmationByCode
	a.ConfirmationMethod = &method
	a.ConfirmationTime = &now
	a.ConfirmedBy = nil
	a.Status = AttendanceConfirmed
	a.UpdatedAt = now
}

// ApplyManualConfirmation marks the player present on the creator's word.
func (a *Attendance) ApplyManualConfirmation(confirmer id.UserID, now time.Time) {
	method := ConfirmationManually
	a.ConfirmationMethod = &method
	a.ConfirmationTime = &now
	a.ConfirmedBy = &confirmer
	a.Status = AttendanceConfirmed
	a.UpdatedAt = now
}
