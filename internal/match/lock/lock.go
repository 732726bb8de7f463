// Package lock serializes read-modify-write of a match's result.
//
// KeyedMutex covers a single process. RedisLocker extends the guarantee to
// every instance sharing one Redis, using a lease so a crashed holder cannot
// block a match forever.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
)

// Locker grants exclusive access to one match. Callers must invoke unlock
// exactly once after a successful Lock.
type Locker interface {
	Lock(ctx context.Context, matchID id.MatchID) (unlock func(), err error)
}

// defaultWait bounds how long Lock blocks when ctx has no deadline.
const defaultWait = 5 * time.Second

type keyedEntry struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex is an in-process Locker with one mutex per match. Entries are
// dropped once nobody holds or waits on them.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[id.MatchID]*keyedEntry
	wait    time.Duration
}

// NewKeyedMutex returns a KeyedMutex. wait <= 0 uses the default of 5s.
func NewKeyedMutex(wait time.Duration) *KeyedMutex {
	if wait <= 0 {
		wait = defaultWait
	}
	return &KeyedMutex{
		entries: make(map[id.MatchID]*keyedEntry),
		wait:    wait,
	}
}

func (k *KeyedMutex) Lock(ctx context.Context, matchID id.MatchID) (func(), error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.wait)
		defer cancel()
	}

	entry := k.acquireEntry(matchID)
	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		k.releaseEntry(matchID)
		return nil, lockTimeout(matchID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.sem
			k.releaseEntry(matchID)
		})
	}, nil
}

func (k *KeyedMutex) acquireEntry(matchID id.MatchID) *keyedEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry, ok := k.entries[matchID]
	if !ok {
		entry = &keyedEntry{sem: make(chan struct{}, 1)}
		k.entries[matchID] = entry
	}
	entry.refs++
	return entry
}

func (k *KeyedMutex) releaseEntry(matchID id.MatchID) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry := k.entries[matchID]
	entry.refs--
	if entry.refs == 0 {
		delete(k.entries, matchID)
	}
}

// size is the number of live entries, for tests.
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func lockTimeout(matchID id.MatchID, cause error) error {
	return dErrors.Wrap(
		errors.Join(sentinel.ErrLockTimeout, cause),
		dErrors.CodeTimeout,
		"match "+matchID.String()+" is busy, try again",
	)
}
