// Package notification carries match events to downstream consumers.
//
// Services call Notify and move on: delivery happens on the Dispatcher's
// goroutine, and a failing sink never fails the operation that raised the
// event.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	id "matchday/pkg/domain"
	"matchday/pkg/requestcontext"
)

// Kind names an event on the wire. Values are stable.
type Kind string

const (
	KindMatchStatusChanged  Kind = "match.status_changed"
	KindCodeIssued          Kind = "attendance.code_issued"
	KindAttendanceConfirmed Kind = "attendance.confirmed"
	KindResultUpdated       Kind = "result.temporary_updated"
	KindResultConfirmed     Kind = "result.confirmed"
	KindResultDisputed      Kind = "result.disputed"
	KindFeedbackRequested   Kind = "feedback.requested"
)

// Event is a fact about a match that already happened.
type Event struct {
	ID         id.NotificationID `json:"id"`
	Kind       Kind              `json:"kind"`
	MatchID    id.MatchID        `json:"match_id"`
	UserID     *id.UserID        `json:"user_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent stamps an event with the request time and request id carried by ctx.
func NewEvent(ctx context.Context, kind Kind, matchID id.MatchID, attrs map[string]string) Event {
	return Event{
		ID:         id.NewNotificationID(),
		Kind:       kind,
		MatchID:    matchID,
		Attributes: attrs,
		RequestID:  requestcontext.RequestID(ctx),
		OccurredAt: requestcontext.Now(ctx),
	}
}

// ForUser returns a copy addressed to userID.
func (e Event) ForUser(userID id.UserID) Event {
	e.UserID = &userID
	return e
}

// Notifier accepts events without blocking the caller.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Sink delivers one event somewhere durable or visible.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// Message is the broker-level encoding of an Event. Key is the match id so
// every event for one match lands on the same partition in order.
type Message struct {
	ID        id.NotificationID
	Key       string
	EventType string
	Payload   []byte
}

// MessageFor encodes event as JSON.
func MessageFor(event Event) (Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s event: %w", event.Kind, err)
	}
	return Message{
		ID:        event.ID,
		Key:       event.MatchID.String(),
		EventType: string(event.Kind),
		Payload:   payload,
	}, nil
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}
