package secrets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/secret-greeter/internal/config"
)

type countingStore struct {
	calls atomic.Int32
	err   error
	value string
}

func (s *countingStore) Fetch(context.Context) (Bundle, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return Bundle{"API_KEY": s.value}, nil
}

func TestCache_DisabledPassesThrough(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: 0, Size: 4})
	require.Nil(t, cache)

	inner := &countingStore{value: "abc"}
	store := cache.Wrap("aws", inner)
	for i := 0; i < 3; i++ {
		_, err := store.Fetch(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), inner.calls.Load())
	cache.Purge()
}

func TestCache_ServesWithinWindow(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: time.Minute, Size: 4})
	inner := &countingStore{value: "abc"}
	store := cache.Wrap("aws", inner)

	for i := 0; i < 5; i++ {
		b, err := store.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "abc", b["API_KEY"])
	}
	assert.Equal(t, int32(1), inner.calls.Load())

	cache.Purge()
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCache_ExpiresAfterWindow(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: 20 * time.Millisecond, Size: 4})
	inner := &countingStore{value: "abc"}
	store := cache.Wrap("aws", inner)

	_, err := store.Fetch(context.Background())
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = store.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: time.Minute, Size: 4})
	inner := &countingStore{err: storeError("aws", "get secret value", errors.New("boom"))}
	store := cache.Wrap("aws", inner)

	for i := 0; i < 2; i++ {
		_, err := store.Fetch(context.Background())
		assert.True(t, errors.Is(err, ErrSecretStore))
	}
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCache_CallersCannotMutateCachedBundle(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: time.Minute, Size: 4})
	store := cache.Wrap("aws", &countingStore{value: "abc"})

	b, err := store.Fetch(context.Background())
	require.NoError(t, err)
	b["API_KEY"] = "tampered"

	again, err := store.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", again["API_KEY"])
}

// gatedStore blocks every Fetch until release is closed and honours the
// context it is given.
type gatedStore struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{entered: make(chan struct{}, 64), release: make(chan struct{})}
}

func (s *gatedStore) Fetch(ctx context.Context) (Bundle, error) {
	s.calls.Add(1)
	s.entered <- struct{}{}
	select {
	case <-s.release:
		return Bundle{"API_KEY": "abc"}, nil
	case <-ctx.Done():
		return nil, storeError("aws", "get secret value", ctx.Err())
	}
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: time.Minute, Size: 4})
	inner := newGatedStore()
	store := cache.Wrap("aws", inner)

	const callers = 20
	var waiting sync.WaitGroup
	waiting.Add(callers)
	var done sync.WaitGroup
	for i := 0; i < callers; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			waiting.Done()
			b, err := store.Fetch(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "abc", b["API_KEY"])
		}()
	}

	waiting.Wait()
	<-inner.entered
	// give the remaining callers time to join the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	done.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCache_CanceledCallerDoesNotFailOthers(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: time.Minute, Size: 4})
	inner := newGatedStore()
	store := cache.Wrap("aws", inner)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := store.Fetch(ctxA)
		errA <- err
	}()
	<-inner.entered

	type result struct {
		b   Bundle
		err error
	}
	resB := make(chan result, 1)
	go func() {
		b, err := store.Fetch(context.Background())
		resB <- result{b, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	err := <-errA
	assert.True(t, errors.Is(err, context.Canceled))

	close(inner.release)
	got := <-resB
	require.NoError(t, got.err)
	assert.Equal(t, "abc", got.b["API_KEY"])
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCache_SharedFetchIsBounded(t *testing.T) {
	cache := NewCache(config.SecretCacheConfig{TTL: time.Minute, Size: 4})
	cache.fetchTimeout = 20 * time.Millisecond
	inner := newGatedStore()
	store := cache.Wrap("aws", inner)

	_, err := store.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	close(inner.release)
}
