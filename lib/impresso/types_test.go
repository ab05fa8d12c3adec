package impresso

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	rng, err := NewDateRange("1900-01-01", "1999-12-31")
	require.NoError(t, err)
	require.Equal(t, 1900, rng.From.Year())
	require.Equal(t, 1999, rng.To.Year())
	require.False(t, rng.IsZero())

	rng, err = NewDateRange("", "")
	require.NoError(t, err)
	require.True(t, rng.IsZero())

	rng, err = NewDateRange("1950-01-01", "")
	require.NoError(t, err)
	require.True(t, rng.To.IsZero())

	_, err = NewDateRange("2000-01-01", "1900-01-01")
	require.Error(t, err)

	_, err = NewDateRange("01.01.1900", "")
	require.Error(t, err)
}

func TestYearRange(t *testing.T) {
	rng := YearRange(1920)
	require.Equal(t, time.Date(1920, time.January, 1, 0, 0, 0, 0, time.UTC), rng.From)
	require.Equal(t, time.Date(1920, time.December, 31, 0, 0, 0, 0, time.UTC), rng.To)
}

func TestDateRangeString(t *testing.T) {
	require.Equal(t, "*..*", DateRange{}.String())
	require.Equal(t, "1920-01-01..1920-12-31", YearRange(1920).String())

	half, err := NewDateRange("1950-06-15", "")
	require.NoError(t, err)
	require.Equal(t, "1950-06-15..*", half.String())
}
