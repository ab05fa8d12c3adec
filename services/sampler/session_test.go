package sampler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls int
	err   error
}

func (p *fakeProvider) Acquire(ctx context.Context) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return fmt.Sprintf("token-%d", p.calls), nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type tokenClient struct {
	fakeGateway
	token string
}

func newTestSource(t *testing.T, provider *fakeProvider, ttl time.Duration) (*RefreshingSource, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	source, err := NewRefreshingSource(context.Background(), provider, RefreshingSourceOptions{
		TTL: ttl,
		Now: clock.now,
		Connect: func(token string) (SearchClient, error) {
			return &tokenClient{token: token}, nil
		},
	})
	require.NoError(t, err)
	return source, clock
}

func TestCurrentWithinTTL(t *testing.T) {
	setupTelemetry(t)

	provider := &fakeProvider{}
	source, clock := newTestSource(t, provider, time.Second*10)
	require.Equal(t, 1, provider.calls)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		clock.advance(time.Second)
		source.Current(ctx)
	}

	// still inside the ttl, no re-acquisition
	require.Equal(t, 1, provider.calls)
}

func TestCurrentRefreshesAfterTTL(t *testing.T) {
	setupTelemetry(t)

	provider := &fakeProvider{}
	source, clock := newTestSource(t, provider, time.Second*10)

	ctx := context.Background()
	stale := source.Current(ctx)

	clock.advance(time.Second * 10)
	fresh := source.Current(ctx)
	require.Equal(t, 2, provider.calls)
	require.NotSame(t, stale, fresh)
	require.Equal(t, "token-2", fresh.(*tokenClient).token)

	// exactly one acquisition per elapsed ttl
	source.Current(ctx)
	require.Equal(t, 2, provider.calls)
}

func TestCurrentKeepsStaleClientOnAcquireFailure(t *testing.T) {
	setupTelemetry(t)

	provider := &fakeProvider{}
	source, clock := newTestSource(t, provider, time.Second*10)

	ctx := context.Background()
	original := source.Current(ctx)

	provider.err = fmt.Errorf("login flow broke")
	clock.advance(time.Second * 10)

	got := source.Current(ctx)
	require.Equal(t, 2, provider.calls)
	require.Same(t, original, got)

	// refresh is deferred a full ttl, not retried immediately
	clock.advance(time.Second)
	source.Current(ctx)
	require.Equal(t, 2, provider.calls)

	// a later scheduled refresh recovers
	provider.err = nil
	clock.advance(time.Second * 10)
	recovered := source.Current(ctx)
	require.Equal(t, 3, provider.calls)
	require.NotSame(t, original, recovered)
}

func TestRefreshRestartsHintClock(t *testing.T) {
	setupTelemetry(t)

	provider := &fakeProvider{}
	clock := &fakeClock{t: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	source, err := NewRefreshingSource(context.Background(), provider, RefreshingSourceOptions{
		TTL:          time.Second * 20,
		HintInterval: time.Second * 5,
		Now:          clock.now,
		Connect: func(token string) (SearchClient, error) {
			return &tokenClient{token: token}, nil
		},
	})
	require.NoError(t, err)

	ctx := context.Background()
	clock.advance(time.Second * 20)
	source.Current(ctx)
	require.Equal(t, clock.t, source.lastHint)

	// a lifetime hint right after a refresh would be noise
	clock.advance(time.Second * 4)
	source.Current(ctx)
	require.NotEqual(t, clock.t, source.lastHint)

	clock.advance(time.Second)
	source.Current(ctx)
	require.Equal(t, clock.t, source.lastHint)
}

func TestNewRefreshingSourceFailsWhenInitialAcquireFails(t *testing.T) {
	setupTelemetry(t)

	provider := &fakeProvider{err: fmt.Errorf("no credentials")}
	_, err := NewRefreshingSource(context.Background(), provider, RefreshingSourceOptions{
		Connect: func(token string) (SearchClient, error) {
			return &tokenClient{token: token}, nil
		},
	})
	require.Error(t, err)
}
