package source

import (
    "context"
    "time"

    "github.com/shopspring/decimal"
)

// Price is the normalized record returned by all sources.
// An empty Currency means the caller's default applies.
type Price struct {
    Price    decimal.Decimal `json:"price"`
    Time     time.Time       `json:"time"`
    Currency string          `json:"currency,omitempty"`
}

// Sample is a single point of a provider's historical series.
type Sample struct {
    Time  time.Time
    Price decimal.Decimal
}

// Series is a provider's historical series. Ordering is not
// guaranteed until SortAscending has run.
type Series []Sample

// Source resolves prices for one upstream provider.
// A (nil, nil) return means no price was available, which is not an error.
type Source interface {
    Name() string
    LatestPrice(ctx context.Context, symbol string) (*Price, error)
    HistoricalPrice(ctx context.Context, symbol string, t time.Time) (*Price, error)
}
