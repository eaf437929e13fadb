package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, from, to string) DateRange {
	t.Helper()
	r, err := ParseDateRange(from, to)
	require.NoError(t, err)
	return r
}

func TestDateRange_Overlaps(t *testing.T) {
	booked := mustRange(t, "2024-01-10", "2024-01-15")

	tests := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"identical", "2024-01-10", "2024-01-15", true},
		{"inside", "2024-01-11", "2024-01-12", true},
		{"contains", "2024-01-01", "2024-01-31", true},
		{"shared_end_day", "2024-01-15", "2024-01-20", true},
		{"shared_start_day", "2024-01-05", "2024-01-10", true},
		{"single_day_on_boundary", "2024-01-15", "2024-01-15", true},
		{"day_after", "2024-01-16", "2024-01-20", false},
		{"day_before", "2024-01-01", "2024-01-09", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requested := mustRange(t, tt.from, tt.to)
			assert.Equal(t, tt.want, booked.Overlaps(requested))
			// El predicado es simétrico
			assert.Equal(t, tt.want, requested.Overlaps(booked))
		})
	}
}

func TestParseDateRange_Invalid(t *testing.T) {
	_, err := ParseDateRange("2024-01-20", "2024-01-10")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = ParseDateRange("10/01/2024", "2024-01-10")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = ParseDateRange("2024-02-30", "2024-03-01")
	assert.Error(t, err)
}

func TestParseDateRange_SingleDay(t *testing.T) {
	r := mustRange(t, "2024-03-01", "2024-03-01")
	assert.Equal(t, 1, r.Days())
	assert.Equal(t, "2024-03-01", r.FromString())
	assert.Equal(t, "2024-03-01", r.ToString())
}

func TestFindConflict(t *testing.T) {
	existing := []Booking{
		{ID: 1, ListingID: 7, StartDate: "2024-01-01", EndDate: "2024-01-05"},
		{ID: 2, ListingID: 7, StartDate: "2024-01-10", EndDate: "2024-01-15"},
	}

	conflict := FindConflict(existing, mustRange(t, "2024-01-15", "2024-01-20"))
	require.NotNil(t, conflict)
	assert.Equal(t, uint(2), conflict.ID)

	assert.Nil(t, FindConflict(existing, mustRange(t, "2024-01-16", "2024-01-20")))
	assert.Nil(t, FindConflict(existing, mustRange(t, "2024-01-06", "2024-01-09")))
	assert.Nil(t, FindConflict(nil, mustRange(t, "2024-01-06", "2024-01-09")))
}

func TestFindConflict_CorruptRowBlocks(t *testing.T) {
	existing := []Booking{{ID: 3, StartDate: "garbage", EndDate: "2024-01-05"}}
	assert.NotNil(t, FindConflict(existing, mustRange(t, "2030-01-01", "2030-01-02")))
}
