package impresso

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// Aggregates hit counts over one facet dimension for a search term,
// optionally restricted to a date range.
func (c *Client) Facet(ctx context.Context, dimension Dimension, term string, rng DateRange, limit int) ([]FacetBucket, error) {
	op := fmt.Sprintf("facet %s %q", dimension, term)

	ctx, span := tracer.Start(ctx, "client:Facet")
	defer span.End()

	var out listResponse[FacetBucket]
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("term", term).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&out)
	setRangeParams(req, rng)

	res, err := req.Get("/search/facets/" + string(dimension))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "facet request failed")
		return nil, &TransientQueryError{Op: op, Err: err}
	}
	if err := classifyResponse(op, res); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out.Data, nil
}

type FindRequest struct {
	Term string
	// restricts hits to one newspaper when non-empty
	NewspaperID string
	Range       DateRange
	Limit       int
}

// Runs a full-text search and returns hit metadata. Text contents are
// never requested, the sampler only needs UIDs.
func (c *Client) Find(ctx context.Context, freq FindRequest) ([]DocumentHit, error) {
	op := fmt.Sprintf("find %q in %q", freq.Term, freq.NewspaperID)

	ctx, span := tracer.Start(ctx, "client:Find")
	defer span.End()

	var out listResponse[DocumentHit]
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("term", freq.Term).
		SetQueryParam("limit", strconv.Itoa(freq.Limit)).
		SetQueryParam("with_text_contents", "false").
		SetResult(&out)
	if freq.NewspaperID != "" {
		req.SetQueryParam("newspaper_id", freq.NewspaperID)
	}
	setRangeParams(req, freq.Range)

	res, err := req.Get("/search")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find request failed")
		return nil, &TransientQueryError{Op: op, Err: err}
	}
	if err := classifyResponse(op, res); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out.Data, nil
}

func setRangeParams(req *resty.Request, rng DateRange) {
	if rng.IsZero() {
		return
	}
	if !rng.From.IsZero() {
		req.SetQueryParam("from", rng.From.Format(dateLayout))
	}
	if !rng.To.IsZero() {
		req.SetQueryParam("to", rng.To.Format(dateLayout))
	}
}
