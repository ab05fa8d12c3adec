package sampler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"impresso-sampler/lib/impresso"
	"impresso-sampler/lib/impresso/auth"
)

// The slice of the impresso client the sampler consumes.
type SearchClient interface {
	Facet(ctx context.Context, dimension impresso.Dimension, term string, rng impresso.DateRange, limit int) ([]impresso.FacetBucket, error)
	Find(ctx context.Context, req impresso.FindRequest) ([]impresso.DocumentHit, error)
}

// Hands out the current authenticated client. Callers must fetch the
// client immediately before every remote call rather than holding one
// across a loop, the session underneath may be swapped at any time.
type SessionSource interface {
	Current(ctx context.Context) SearchClient
}

const (
	// how long an acquired token is assumed to stay valid (7.5h)
	DefaultSessionTTL = 27000 * time.Second
	// how often to log time remaining until the next refresh
	DefaultHintInterval = 15 * time.Minute
)

// Re-acquires the session through an auth.Provider once its assumed
// lifetime has elapsed. Refresh is opportunistic: when acquisition
// fails the stale client stays in service and the failure only shows
// up downstream as query errors.
type RefreshingSource struct {
	mu       sync.Mutex
	provider auth.Provider
	connect  func(token string) (SearchClient, error)

	ttl  time.Duration
	hint time.Duration
	now  func() time.Time

	client     SearchClient
	acquiredAt time.Time
	lastHint   time.Time
}

type RefreshingSourceOptions struct {
	// defaults to DefaultSessionTTL
	TTL time.Duration
	// defaults to DefaultHintInterval
	HintInterval time.Duration
	// base URL for the default connect function
	BaseURL string
	// overrides how a token becomes a client (tests)
	Connect func(token string) (SearchClient, error)
	// overrides the clock (tests)
	Now func() time.Time
}

// Acquires the initial session eagerly so a dead login flow fails the
// run up front instead of mid-campaign.
func NewRefreshingSource(ctx context.Context, provider auth.Provider, opts RefreshingSourceOptions) (*RefreshingSource, error) {
	s := &RefreshingSource{
		provider: provider,
		connect:  opts.Connect,
		ttl:      opts.TTL,
		hint:     opts.HintInterval,
		now:      opts.Now,
	}
	if s.connect == nil {
		s.connect = func(token string) (SearchClient, error) {
			return impresso.NewClient(impresso.ClientOptions{
				BaseURL: opts.BaseURL,
				Token:   token,
			})
		}
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.hint <= 0 {
		s.hint = DefaultHintInterval
	}
	if s.now == nil {
		s.now = time.Now
	}

	client, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	s.client = client
	s.acquiredAt = s.now()
	s.lastHint = s.acquiredAt
	return s, nil
}

func (s *RefreshingSource) acquire(ctx context.Context) (SearchClient, error) {
	token, err := s.provider.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s.connect(token)
}

// Returns the current client, refreshing it first when the TTL has
// elapsed. Safe to call before every remote operation; it performs no
// network I/O beyond delegating to the provider when a refresh is due.
func (s *RefreshingSource) Current(ctx context.Context) SearchClient {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if now.Sub(s.acquiredAt) >= s.ttl {
		slog.InfoContext(ctx, "session ttl elapsed, refreshing client")
		client, err := s.acquire(ctx)
		if err != nil {
			// keep serving the stale session, it may still work
			// or will surface as a query error downstream
			slog.ErrorContext(ctx, "failed to refresh session, keeping stale client", "err", err)
		} else {
			s.client = client
			refreshCounter.Add(ctx, 1)
			slog.InfoContext(ctx, "session refreshed")
		}
		// either way the next attempt is a full ttl away, and the
		// hint clock restarts with it
		s.acquiredAt = now
		s.lastHint = now
		return s.client
	}

	if now.Sub(s.lastHint) >= s.hint {
		left := s.ttl - now.Sub(s.acquiredAt)
		slog.InfoContext(ctx, "time until session refresh",
			"remaining", left.Round(time.Second).String())
		s.lastHint = now
	}

	return s.client
}
