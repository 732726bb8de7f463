package notification

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultBufferSize    = 1024
	defaultBatchSize     = 64
	defaultFlushInterval = 500 * time.Millisecond
	shutdownFlushTimeout = 5 * time.Second
)

// Dispatcher buffers events and fans them out to every sink on its own
// goroutine. Notify never blocks; on overflow the oldest event is dropped.
type Dispatcher struct {
	buffer    *RingBuffer
	sinks     []Sink
	batchSize int
	interval  time.Duration
	wake      chan struct{}
	logger    *slog.Logger
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithBufferSize(n int) Option {
	return func(d *Dispatcher) {
		d.buffer = NewRingBuffer(n)
	}
}

func WithFlushInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

func NewDispatcher(sinks []Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		buffer:    NewRingBuffer(defaultBufferSize),
		sinks:     sinks,
		batchSize: defaultBatchSize,
		interval:  defaultFlushInterval,
		wake:      make(chan struct{}, 1),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Notify(_ context.Context, event Event) {
	if d.buffer.Enqueue(event) {
		d.logger.Warn("notification buffer full, dropped oldest event", "kind", event.Kind)
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run delivers buffered events until ctx is cancelled, then flushes what is left.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
			d.Flush(flushCtx)
			cancel()
			return nil
		case <-d.wake:
			d.Flush(ctx)
		case <-ticker.C:
			d.Flush(ctx)
		}
	}
}

// Flush delivers everything currently buffered.
func (d *Dispatcher) Flush(ctx context.Context) {
	for {
		batch := d.buffer.DequeueBatch(d.batchSize)
		if len(batch) == 0 {
			return
		}
		for _, event := range batch {
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event Event) {
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			d.logger.ErrorContext(ctx, "failed to deliver notification",
				"kind", event.Kind,
				"match_id", event.MatchID,
				"notification_id", event.ID,
				"error", err,
			)
		}
	}
}

// Pending is the number of buffered events.
func (d *Dispatcher) Pending() int {
	return d.buffer.Len()
}

// Dropped is the number of events evicted because the buffer was full.
func (d *Dispatcher) Dropped() int64 {
	return d.buffer.Dropped()
}
