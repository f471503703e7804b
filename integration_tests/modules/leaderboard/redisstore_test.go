//go:build integration

package leaderboardintegrationtests

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/redisstore"
)

func TestRedisStore_GetSetDelete(t *testing.T) {
	ctx := resetEnv(t)
	store := testEnv.Store

	_, err := store.Get(ctx, "lb:top:1:100")
	assert.ErrorIs(t, err, redisstore.ErrMiss)

	require.NoError(t, store.Set(ctx, "lb:top:1:100", []byte(`{"n":100}`), time.Minute))
	got, err := store.Get(ctx, "lb:top:1:100")
	require.NoError(t, err)
	assert.Equal(t, `{"n":100}`, string(got))

	require.NoError(t, store.Delete(ctx, "lb:top:1:100"))
	_, err = store.Get(ctx, "lb:top:1:100")
	assert.ErrorIs(t, err, redisstore.ErrMiss)

	require.NoError(t, store.Delete(ctx, "lb:top:1:100"), "deleting a missing key is not an error")
}

func TestRedisStore_SetIfAbsentIsAtomic(t *testing.T) {
	ctx := resetEnv(t)
	store := testEnv.Store

	const workers = 32
	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.SetIfAbsent(ctx, "idem:lb:player:key-1", []byte("1"), time.Minute)
			assert.NoError(t, err)
			if ok {
				created.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), created.Load())
}

func TestRedisStore_TTLExpires(t *testing.T) {
	ctx := resetEnv(t)
	store := testEnv.Store

	ok, err := store.SetIfAbsent(ctx, "idem:lb:player:short", []byte("1"), time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		ok, err := store.SetIfAbsent(ctx, "idem:lb:player:short", []byte("1"), time.Second)
		return err == nil && ok
	}, 5*time.Second, 200*time.Millisecond)
}
