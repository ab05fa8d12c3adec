package sampler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"impresso-sampler/lib/impresso/auth"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed db/schema.sql
var tokenSchema string

// Persists the most recently acquired token and when it was acquired,
// so a restarted run can reuse a still-live session instead of
// replaying the slow external login flow.
type TokenStore struct {
	db *sql.DB
}

func OpenTokenStore(path string) (*TokenStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(tokenSchema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &TokenStore{db: db}, nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}

func (s *TokenStore) Save(ctx context.Context, token string, acquiredAt time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO api_token (id, token, acquired_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET token = excluded.token, acquired_at = excluded.acquired_at`,
		token, acquiredAt.Unix(),
	)
	return err
}

// Returns an empty token when nothing has been stored yet.
func (s *TokenStore) Load(ctx context.Context) (string, time.Time, error) {
	var token string
	var acquiredAt int64
	err := s.db.QueryRowContext(
		ctx, `SELECT token, acquired_at FROM api_token WHERE id = 1`,
	).Scan(&token, &acquiredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Unix(acquiredAt, 0), nil
}

// An auth.Provider that serves the stored token while it is younger
// than the TTL and otherwise delegates to the wrapped provider,
// recording whatever it produces.
type StoredTokenProvider struct {
	Store *TokenStore
	Next  auth.Provider
	// defaults to DefaultSessionTTL
	TTL time.Duration
	// overrides the clock (tests)
	Now func() time.Time
}

func (p StoredTokenProvider) Acquire(ctx context.Context) (string, error) {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	token, acquiredAt, err := p.Store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "could not read stored token", "err", err)
	} else if token != "" && now().Sub(acquiredAt) < ttl {
		slog.InfoContext(ctx, "reusing stored token",
			"age", now().Sub(acquiredAt).Round(time.Second).String())
		return token, nil
	}

	token, err = p.Next.Acquire(ctx)
	if err != nil {
		return "", err
	}

	err = p.Store.Save(ctx, token, now())
	if err != nil {
		slog.WarnContext(ctx, "could not persist acquired token", "err", err)
	}
	return token, nil
}
