package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "matchday/pkg/domain"
	dErrors "matchday/pkg/domain-errors"
	"matchday/pkg/platform/sentinel"
)

func TestKeyedMutex(t *testing.T) {
	t.Run("serializes holders of one match", func(t *testing.T) {
		km := NewKeyedMutex(time.Second)
		matchID := id.NewMatchID()

		var inside, maxInside atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := km.Lock(context.Background(), matchID)
				if !assert.NoError(t, err) {
					return
				}
				n := inside.Add(1)
				for {
					cur := maxInside.Load()
					if n <= cur || maxInside.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				unlock()
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxInside.Load())
		assert.Equal(t, 0, km.size())
	})

	t.Run("different matches do not block each other", func(t *testing.T) {
		km := NewKeyedMutex(time.Second)
		unlockA, err := km.Lock(context.Background(), id.NewMatchID())
		require.NoError(t, err)
		defer unlockA()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		unlockB, err := km.Lock(ctx, id.NewMatchID())
		require.NoError(t, err)
		unlockB()
	})

	t.Run("times out while held", func(t *testing.T) {
		km := NewKeyedMutex(20 * time.Millisecond)
		matchID := id.NewMatchID()
		unlock, err := km.Lock(context.Background(), matchID)
		require.NoError(t, err)

		_, err = km.Lock(context.Background(), matchID)
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel.ErrLockTimeout)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))

		unlock()
		assert.Equal(t, 0, km.size())
	})

	t.Run("unlock is idempotent", func(t *testing.T) {
		km := NewKeyedMutex(time.Second)
		matchID := id.NewMatchID()
		unlock, err := km.Lock(context.Background(), matchID)
		require.NoError(t, err)
		unlock()
		unlock()

		again, err := km.Lock(context.Background(), matchID)
		require.NoError(t, err)
		again()
	})
}
