package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "matchday/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseMatchID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseTeamID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseResultID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, ResultID(validUUID), id)
	})
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE matches;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMatchID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTeamID_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Winner *TeamID `json:"winner"`
	}
	winner := NewTeamID()

	raw, err := json.Marshal(payload{Winner: &winner})
	require.NoError(t, err)
	assert.Contains(t, string(raw), winner.String())

	var decoded payload
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Winner)
	assert.Equal(t, winner, *decoded.Winner)

	raw, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"winner":null}`, string(raw))
}

func TestIDs_JSONUsesCanonicalString(t *testing.T) {
	type payload struct {
		User         UserID         `json:"user"`
		Match        MatchID        `json:"match"`
		Team         TeamID         `json:"team"`
		Result       ResultID       `json:"result"`
		Attendance   AttendanceID   `json:"attendance"`
		Submission   SubmissionID   `json:"submission"`
		Feedback     FeedbackID     `json:"feedback"`
		Notification NotificationID `json:"notification"`
	}
	in := payload{
		User:         UserID(uuid.New()),
		Match:        NewMatchID(),
		Team:         NewTeamID(),
		Result:       NewResultID(),
		Attendance:   NewAttendanceID(),
		Submission:   NewSubmissionID(),
		Feedback:     NewFeedbackID(),
		Notification: NewNotificationID(),
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, uuid.UUID(in.Attendance).String(), fields["attendance"])
	assert.Equal(t, uuid.UUID(in.Notification).String(), fields["notification"])
	assert.Len(t, fields, 8)

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}
