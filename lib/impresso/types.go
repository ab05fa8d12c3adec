package impresso

import (
	"fmt"
	"time"
)

// A faceted search dimension.
type Dimension string

const (
	FacetYear      Dimension = "year"
	FacetNewspaper Dimension = "newspaper"
)

// An inclusive calendar date range. Zero From/To values mean the range
// is unbounded on that side; the zero DateRange is fully unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

const dateLayout = "2006-01-02"

func NewDateRange(from, to string) (DateRange, error) {
	var rng DateRange
	var err error

	if from != "" {
		rng.From, err = time.Parse(dateLayout, from)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q: %w", from, err)
		}
	}
	if to != "" {
		rng.To, err = time.Parse(dateLayout, to)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q: %w", to, err)
		}
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return DateRange{}, fmt.Errorf("start date %q is after end date %q", from, to)
	}
	return rng, nil
}

// The range covering one full calendar year, Jan 1 through Dec 31.
func YearRange(year int) DateRange {
	return DateRange{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) String() string {
	from, to := "*", "*"
	if !r.From.IsZero() {
		from = r.From.Format(dateLayout)
	}
	if !r.To.IsZero() {
		to = r.To.Format(dateLayout)
	}
	return fmt.Sprintf("%s..%s", from, to)
}

// One distinct value of a faceted dimension with its hit count. The API
// does not guarantee bucket ordering.
type FacetBucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// A single search result. Only the UID is consumed downstream, the rest
// of the payload is discarded on decode.
type DocumentHit struct {
	UID string `json:"uid"`
}
