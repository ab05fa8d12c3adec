// Package sampler implements the stratified article sampling core: a
// rate-limited walk over (year, newspaper) facet cells drawing one
// random document per cell, driven across a keyword list with a
// resumable checkpoint.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"impresso-sampler/lib/impresso"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/sampler")
var meter = otel.Meter("services/sampler")

var findCounter, _ = meter.Int64Counter("sampler_find_total")
var sampledCounter, _ = meter.Int64Counter("sampler_uids_total")
var refreshCounter, _ = meter.Int64Counter("sampler_session_refresh_total")

// surfaced immediately, never recovered per cell
var ErrInvalidLimit = errors.New("limit_per_query must be between 1 and 100")

type Config struct {
	// hits requested per (year, newspaper) query, 1..100
	LimitPerQuery int
	// stop after this many sampled UIDs per keyword
	MaxHits int
	// mandatory pause after every find call
	Delay time.Duration
}

func (c Config) Validate() error {
	if c.LimitPerQuery < 1 || c.LimitPerQuery > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, c.LimitPerQuery)
	}
	if c.MaxHits < 1 {
		return fmt.Errorf("max_hits must be positive: got %d", c.MaxHits)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative: got %s", c.Delay)
	}
	return nil
}

// facet page size for year/newspaper aggregation, generous enough to
// cover the full archive
const facetLimit = 200

type Sampler struct {
	source SessionSource
	sleep  func(time.Duration)
	pick   func(n int) (int, error)
}

func NewSampler(source SessionSource) *Sampler {
	return &Sampler{
		source: source,
		sleep:  time.Sleep,
		pick: func(n int) (int, error) {
			return random.IntRange(0, n)
		},
	}
}

// Draws at most cfg.MaxHits document UIDs for one keyword, one random
// hit per (year, newspaper) cell, walking cells in ascending year then
// newspaper order. Query failures on single cells are logged and
// treated as empty cells; only an invalid config or a failure of the
// initial year aggregation abort the keyword.
func (s *Sampler) Sample(ctx context.Context, keyword string, rng impresso.DateRange, cfg Config) ([]string, error) {
	ctx, span := tracer.Start(ctx, "sampler:Sample")
	defer span.End()
	span.SetAttributes(attribute.String("keyword", keyword))

	if err := cfg.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	slog.InfoContext(ctx, "sampling keyword",
		"keyword", keyword,
		"range", rng.String(),
		"limit_per_query", cfg.LimitPerQuery,
		"max_hits", cfg.MaxHits,
		"delay", cfg.Delay.String(),
	)

	years, err := s.source.Current(ctx).Facet(ctx, impresso.FacetYear, keyword, rng, facetLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "year aggregation failed")
		return nil, fmt.Errorf("aggregate years for %q: %w", keyword, err)
	}
	if len(years) == 0 {
		slog.WarnContext(ctx, "no hits for keyword", "keyword", keyword)
		return nil, nil
	}
	sortBuckets(years)
	slog.InfoContext(ctx, "found years mentioning keyword",
		"keyword", keyword, "years", len(years))

	var uids []string
	for _, yearBucket := range years {
		year, err := strconv.Atoi(yearBucket.Value)
		if err != nil {
			slog.WarnContext(ctx, "skipping non-numeric year bucket", "value", yearBucket.Value)
			continue
		}
		yearRange := impresso.YearRange(year)

		papers, err := s.source.Current(ctx).Facet(ctx, impresso.FacetNewspaper, keyword, yearRange, facetLimit)
		if err != nil {
			slog.ErrorContext(ctx, "newspaper aggregation failed, skipping year",
				"keyword", keyword, "year", year, "err", err)
			continue
		}
		if len(papers) == 0 {
			slog.WarnContext(ctx, "no newspapers for year", "keyword", keyword, "year", year)
			continue
		}
		sortBuckets(papers)

		for _, paper := range papers {
			if paper.Value == "" {
				slog.WarnContext(ctx, "missing newspaper id in facet bucket", "year", year)
				continue
			}

			uid, ok := s.sampleCell(ctx, keyword, year, paper.Value, yearRange, cfg)
			if !ok {
				continue
			}

			uids = append(uids, uid)
			sampledCounter.Add(ctx, 1)
			slog.InfoContext(ctx, "sampling progress",
				"keyword", keyword, "sampled", len(uids), "max_hits", cfg.MaxHits)

			if len(uids) >= cfg.MaxHits {
				slog.InfoContext(ctx, "reached max hits", "keyword", keyword, "max_hits", cfg.MaxHits)
				return uids, nil
			}
		}
	}

	slog.InfoContext(ctx, "sampling completed", "keyword", keyword, "sampled", len(uids))
	return uids, nil
}

// Queries one (year, newspaper) cell and picks one hit uniformly at
// random. The politeness delay applies after every find call, errored
// ones included.
func (s *Sampler) sampleCell(ctx context.Context, keyword string, year int, newspaper string, rng impresso.DateRange, cfg Config) (string, bool) {
	hits, err := s.source.Current(ctx).Find(ctx, impresso.FindRequest{
		Term:        keyword,
		NewspaperID: newspaper,
		Range:       rng,
		Limit:       cfg.LimitPerQuery,
	})
	findCounter.Add(ctx, 1)
	s.sleep(cfg.Delay)

	if err != nil {
		slog.ErrorContext(ctx, "cell query failed, treating as empty",
			"keyword", keyword, "year", year, "newspaper", newspaper, "err", err)
		return "", false
	}
	if len(hits) == 0 {
		slog.DebugContext(ctx, "no results in cell",
			"keyword", keyword, "year", year, "newspaper", newspaper)
		return "", false
	}

	i, err := s.pick(len(hits))
	if err != nil {
		slog.ErrorContext(ctx, "failed to draw random hit",
			"keyword", keyword, "year", year, "newspaper", newspaper, "err", err)
		return "", false
	}
	uid := hits[i].UID
	if uid == "" {
		slog.WarnContext(ctx, "hit without uid",
			"keyword", keyword, "year", year, "newspaper", newspaper)
		return "", false
	}

	slog.DebugContext(ctx, "selected uid",
		"uid", uid, "year", year, "newspaper", newspaper)
	return uid, true
}

// deterministic iteration order, the API does not guarantee one
func sortBuckets(buckets []impresso.FacetBucket) {
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Value < buckets[j].Value
	})
}
