package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"matchday/internal/notification"
)

// Publisher hands a message to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg notification.Message) error
}

// entryStore is the part of Store the relay needs.
type entryStore interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	FetchUnpublished(ctx context.Context, limit int) ([]Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
	RecordAttempt(ctx context.Context, entryID uuid.UUID) error
}

const (
	defaultRelayBatch    = 100
	defaultRelayInterval = 2 * time.Second
)

// Relay polls the outbox and publishes rows in creation order. A publish
// failure ends the batch so ordering per match is preserved; the row is
// retried on the next tick.
type Relay struct {
	store     entryStore
	publisher Publisher
	batchSize int
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

type RelayOption func(*Relay)

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithRelayInterval(interval time.Duration) RelayOption {
	return func(r *Relay) {
		if interval > 0 {
			r.interval = interval
		}
	}
}

func WithRelayBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithRelayClock(now func() time.Time) RelayOption {
	return func(r *Relay) {
		r.now = now
	}
}

func NewRelay(store entryStore, publisher Publisher, opts ...RelayOption) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		batchSize: defaultRelayBatch,
		interval:  defaultRelayInterval,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many rows were published.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.store.RunInTx(ctx, func(txCtx context.Context) error {
		entries, err := r.store.FetchUnpublished(txCtx, r.batchSize)
		if err != nil {
			return err
		}
		done := make([]uuid.UUID, 0, len(entries))
		for _, entry := range entries {
			if err := r.publisher.Publish(txCtx, entry.Message()); err != nil {
				r.logger.WarnContext(txCtx, "outbox publish failed, will retry",
					"outbox_id", entry.ID,
					"event_type", entry.EventType,
					"attempts", entry.Attempts+1,
					"error", err,
				)
				if err := r.store.RecordAttempt(txCtx, entry.ID); err != nil {
					return err
				}
				break
			}
			done = append(done, entry.ID)
		}
		if err := r.store.MarkPublished(txCtx, done, r.now()); err != nil {
			return err
		}
		published = len(done)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}
