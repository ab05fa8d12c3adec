package sampler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *TokenStore {
	store, err := OpenTokenStore(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	token, _, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, token)

	acquiredAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, "token-1", acquiredAt))

	token, at, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "token-1", token)
	require.Equal(t, acquiredAt.Unix(), at.Unix())

	// a second save replaces the single stored row
	require.NoError(t, store.Save(ctx, "token-2", acquiredAt.Add(time.Hour)))
	token, _, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "token-2", token)
}

func TestStoredTokenProvider(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	clock := &fakeClock{t: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	next := &fakeProvider{}
	provider := StoredTokenProvider{
		Store: store,
		Next:  next,
		TTL:   time.Hour,
		Now:   clock.now,
	}

	// empty store delegates and records the result
	token, err := provider.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, "token-1", token)
	require.Equal(t, 1, next.calls)

	// within the ttl the stored token is served without delegating
	clock.advance(time.Minute * 30)
	token, err = provider.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, "token-1", token)
	require.Equal(t, 1, next.calls)

	// past the ttl it delegates again
	clock.advance(time.Hour)
	token, err = provider.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, "token-2", token)
	require.Equal(t, 2, next.calls)
}
