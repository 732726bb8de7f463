package notification

import (
	"context"
	"log/slog"
	"sync"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, event Event) error {
	attrs := []any{
		"notification_id", event.ID,
		"kind", event.Kind,
		"match_id", event.MatchID,
		"occurred_at", event.OccurredAt,
	}
	if event.UserID != nil {
		attrs = append(attrs, "user_id", *event.UserID)
	}
	if event.RequestID != "" {
		attrs = append(attrs, "request_id", event.RequestID)
	}
	for k, v := range event.Attributes {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "notification", attrs...)
	return nil
}

// MemorySink keeps delivered events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Deliver(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything delivered so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Kinds returns the kinds delivered so far, in order.
func (s *MemorySink) Kinds() []Kind {
	events := s.Events()
	out := make([]Kind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}
