// Package domain holds the typed identifiers shared across the match engine.
//
// Every aggregate gets its own UUID-backed type so that a TeamID can never be
// passed where a MatchID is expected. Parse* functions are the trust boundary:
// they reject empty, malformed, and nil UUIDs with CodeInvalidInput.
package domain

import (
	"github.com/google/uuid"

	dErrors "matchday/pkg/domain-errors"
)

type (
	UserID         uuid.UUID
	MatchID        uuid.UUID
	TeamID         uuid.UUID
	AttendanceID   uuid.UUID
	SubmissionID   uuid.UUID
	ResultID       uuid.UUID
	FeedbackID     uuid.UUID
	NotificationID uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return parsed, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user id", s)
	return UserID(u), err
}

func ParseMatchID(s string) (MatchID, error) {
	u, err := parseUUID("match id", s)
	return MatchID(u), err
}

func ParseTeamID(s string) (TeamID, error) {
	u, err := parseUUID("team id", s)
	return TeamID(u), err
}

func ParseResultID(s string) (ResultID, error) {
	u, err := parseUUID("result id", s)
	return ResultID(u), err
}

func ParseSubmissionID(s string) (SubmissionID, error) {
	u, err := parseUUID("submission id", s)
	return SubmissionID(u), err
}

func NewMatchID() MatchID               { return MatchID(uuid.New()) }
func NewTeamID() TeamID                 { return TeamID(uuid.New()) }
func NewAttendanceID() AttendanceID     { return AttendanceID(uuid.New()) }
func NewSubmissionID() SubmissionID     { return SubmissionID(uuid.New()) }
func NewResultID() ResultID             { return ResultID(uuid.New()) }
func NewFeedbackID() FeedbackID         { return FeedbackID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id MatchID) String() string        { return uuid.UUID(id).String() }
func (id TeamID) String() string         { return uuid.UUID(id).String() }
func (id AttendanceID) String() string   { return uuid.UUID(id).String() }
func (id SubmissionID) String() string   { return uuid.UUID(id).String() }
func (id ResultID) String() string       { return uuid.UUID(id).String() }
func (id FeedbackID) String() string     { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id MatchID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TeamID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// JSON encodes ids as their canonical string form.
func (id UserID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id MatchID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id TeamID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id ResultID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id AttendanceID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id SubmissionID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id FeedbackID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id NotificationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *MatchID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TeamID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ResultID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *AttendanceID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SubmissionID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *FeedbackID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *NotificationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
