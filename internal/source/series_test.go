package source_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pricesource/internal/source"
)

func sample(t *testing.T, day string, price string) source.Sample {
	t.Helper()
	ts, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	return source.Sample{Time: ts, Price: p}
}

const week = 7 * 24 * time.Hour

func TestAsOf_SortIsIdempotent(t *testing.T) {
	t.Parallel()

	asc := source.Series{
		sample(t, "2025-12-24", "118"),
		sample(t, "2025-12-26", "119"),
		sample(t, "2025-12-28", "120"),
	}
	desc := source.Series{asc[2], asc[1], asc[0]}
	at := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)

	// Act: run the selection on pre-sorted and reverse-sorted input.
	gotAsc, okAsc := source.AsOf(asc, at, week)
	gotDesc, okDesc := source.AsOf(desc, at, week)

	require.True(t, okAsc)
	require.True(t, okDesc)
	require.Equal(t, gotAsc, gotDesc)
	require.True(t, gotAsc.Price.Equal(decimal.NewFromInt(120)))
}

func TestAsOf_NearestPriorWins(t *testing.T) {
	t.Parallel()

	s := source.Series{
		sample(t, "2025-12-28", "120.00"),
		sample(t, "2025-12-30", "125.00"),
	}
	at := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)

	got, ok := source.AsOf(s, at, week)
	require.True(t, ok)
	require.True(t, got.Price.Equal(decimal.RequireFromString("120.00")))
	require.Equal(t, time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC), got.Time)
}

func TestAsOf_ExactMatchIsInclusive(t *testing.T) {
	t.Parallel()

	s := source.Series{
		sample(t, "2025-12-28", "120"),
		sample(t, "2025-12-29", "121"),
	}
	at := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)

	got, ok := source.AsOf(s, at, week)
	require.True(t, ok)
	require.True(t, got.Price.Equal(decimal.NewFromInt(121)))
}

func TestAsOf_StalenessBoundary(t *testing.T) {
	t.Parallel()

	s := source.Series{sample(t, "2025-12-01", "100")}

	// Exactly seven days after the sample still matches.
	at := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)
	got, ok := source.AsOf(s, at, week)
	require.True(t, ok)
	require.True(t, got.Price.Equal(decimal.NewFromInt(100)))

	// One second past the window does not.
	_, ok = source.AsOf(s, at.Add(time.Second), week)
	require.False(t, ok)
}

func TestAsOf_BeforeAllSamples(t *testing.T) {
	t.Parallel()

	s := source.Series{sample(t, "2025-12-28", "120")}
	at := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	_, ok := source.AsOf(s, at, week)
	require.False(t, ok)
}

func TestAsOf_EmptySeries(t *testing.T) {
	t.Parallel()

	_, ok := source.AsOf(nil, time.Now(), week)
	require.False(t, ok)
}

func TestAsOf_DuplicateTimestampTieBreak(t *testing.T) {
	t.Parallel()

	// Stable sort keeps arrival order, so the reverse scan consistently
	// picks the later-arriving duplicate.
	dup := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
	s := source.Series{
		{Time: dup, Price: decimal.NewFromInt(1)},
		{Time: dup, Price: decimal.NewFromInt(2)},
	}
	got, ok := source.AsOf(s, dup, week)
	require.True(t, ok)
	require.True(t, got.Price.Equal(decimal.NewFromInt(2)))

	// Same input, same answer, every time.
	again, ok := source.AsOf(s, dup, week)
	require.True(t, ok)
	require.Equal(t, got, again)
}

func TestLatest(t *testing.T) {
	t.Parallel()

	s := source.Series{
		sample(t, "2025-12-29", "123"),
		sample(t, "2025-12-27", "122"),
	}
	got, ok := source.Latest(s)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), got.Time)

	_, ok = source.Latest(nil)
	require.False(t, ok)
}
