// Package outbox persists notifications in Postgres and relays them to the
// message bus.
package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"matchday/internal/notification"
	id "matchday/pkg/domain"
	txcontext "matchday/pkg/platform/tx"
)

const aggregateMatch = "match"

// Entry is one outbox row awaiting publication.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	Attempts      int
}

// Store implements notification.Sink using the transactional outbox pattern.
// Events are written to the outbox table and published by the Relay.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) execer(ctx context.Context) txcontext.Execer {
	return txcontext.ExecerFor(ctx, s.db)
}

// RunInTx runs fn inside one transaction; rows fetched by FetchUnpublished
// stay locked until it returns.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, s.db, fn)
}

// Deliver writes event to the outbox. The notification id doubles as the row id
// so a retried delivery cannot enqueue the same event twice.
func (s *Store) Deliver(ctx context.Context, event notification.Event) error {
	msg, err := notification.MessageFor(event)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(event.ID),
		aggregateMatch,
		msg.Key,
		msg.EventType,
		msg.Payload,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// FetchUnpublished locks up to limit pending rows, oldest first. Call inside
// RunInTx so concurrent relays skip each other's rows.
func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, attempts
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.Payload, &e.CreatedAt, &e.Attempts); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return entries, nil
}

func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE outbox SET published_at = $2 WHERE id = ANY($1::uuid[])`
	_, err := s.execer(ctx).ExecContext(ctx, query, pq.Array(uuidStrings(ids)), at)
	if err != nil {
		return fmt.Errorf("mark outbox entries published: %w", err)
	}
	return nil
}

func (s *Store) RecordAttempt(ctx context.Context, entryID uuid.UUID) error {
	query := `UPDATE outbox SET attempts = attempts + 1 WHERE id = $1`
	if _, err := s.execer(ctx).ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("record outbox attempt: %w", err)
	}
	return nil
}

// PendingCount is the number of rows not yet published.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count outbox entries: %w", err)
	}
	return n, nil
}

// Message converts an entry back to the broker encoding.
func (e Entry) Message() notification.Message {
	return notification.Message{
		ID:        id.NotificationID(e.ID),
		Key:       e.AggregateID,
		EventType: e.EventType,
		Payload:   e.Payload,
	}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, u := range ids {
		out[i] = u.String()
	}
	return out
}
