package sampler

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"impresso-sampler/lib/impresso"
	"impresso-sampler/lib/telemetry"
)

func setupTelemetry(t testing.TB) {
	t.Cleanup(telemetry.SetupForTesting(t, "test:services/sampler"))
}

// scripted stand-in for the impresso client, recording every call
type fakeGateway struct {
	// keyword -> year buckets
	yearBuckets map[string][]impresso.FacetBucket
	// "keyword/year" -> newspaper buckets
	paperBuckets map[string][]impresso.FacetBucket
	// "keyword/year/newspaper" -> hits
	hits map[string][]impresso.DocumentHit

	// keyed like the call logs below
	facetErrs map[string]error
	findErrs  map[string]error

	facetCalls []string
	findCalls  []string
}

func cellKey(parts ...string) string {
	return strings.Join(parts, "/")
}

func (g *fakeGateway) Facet(ctx context.Context, dimension impresso.Dimension, term string, rng impresso.DateRange, limit int) ([]impresso.FacetBucket, error) {
	switch dimension {
	case impresso.FacetYear:
		k := cellKey("year", term)
		g.facetCalls = append(g.facetCalls, k)
		if err := g.facetErrs[k]; err != nil {
			return nil, err
		}
		return g.yearBuckets[term], nil
	case impresso.FacetNewspaper:
		year := strconv.Itoa(rng.From.Year())
		k := cellKey("newspaper", term, year)
		g.facetCalls = append(g.facetCalls, k)
		if err := g.facetErrs[k]; err != nil {
			return nil, err
		}
		return g.paperBuckets[cellKey(term, year)], nil
	}
	return nil, nil
}

func (g *fakeGateway) Find(ctx context.Context, req impresso.FindRequest) ([]impresso.DocumentHit, error) {
	year := strconv.Itoa(req.Range.From.Year())
	k := cellKey(req.Term, year, req.NewspaperID)
	g.findCalls = append(g.findCalls, k)
	if err := g.findErrs[k]; err != nil {
		return nil, err
	}
	return g.hits[k], nil
}

func (g *fakeGateway) findCallsFor(keyword string) int {
	n := 0
	for _, c := range g.findCalls {
		if strings.HasPrefix(c, keyword+"/") {
			n++
		}
	}
	return n
}

type staticSource struct {
	client SearchClient
}

func (s staticSource) Current(ctx context.Context) SearchClient {
	return s.client
}

func buckets(values ...string) []impresso.FacetBucket {
	out := make([]impresso.FacetBucket, len(values))
	for i, v := range values {
		out[i] = impresso.FacetBucket{Value: v, Count: 1}
	}
	return out
}

func docs(uids ...string) []impresso.DocumentHit {
	out := make([]impresso.DocumentHit, len(uids))
	for i, uid := range uids {
		out[i] = impresso.DocumentHit{UID: uid}
	}
	return out
}
