package aggregate

import (
    "testing"
    "time"

    "github.com/shopspring/decimal"

    "pricesource/internal/source"
)

func TestFreshest_NewestWinsAcrossSources(t *testing.T) {
    t1 := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
    t2 := t1.Add(24 * time.Hour)

    in := []Record{
        {Source: "ft", Symbol: "VTI", Price: source.Price{Price: decimal.NewFromInt(10), Time: t1}},
        {Source: "tsp", Symbol: "VTI", Price: source.Price{Price: decimal.NewFromInt(11), Time: t2, Currency: "USD"}},
    }

    got, ok := Freshest(in)
    if !ok {
        t.Fatal("want a record")
    }
    if got.Source != "tsp" || !got.Price.Time.Equal(t2) {
        t.Fatalf("unexpected result: %+v", got)
    }
}

func TestFreshest_TieKeepsFirst(t *testing.T) {
    ts := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)
    in := []Record{
        {Source: "ft", Price: source.Price{Price: decimal.NewFromInt(1), Time: ts}},
        {Source: "tsp", Price: source.Price{Price: decimal.NewFromInt(2), Time: ts}},
    }

    got, ok := Freshest(in)
    if !ok || got.Source != "ft" {
        t.Fatalf("want first record on tie, got %+v", got)
    }
}

func TestFreshest_Empty(t *testing.T) {
    if _, ok := Freshest(nil); ok {
        t.Fatal("want no record for empty input")
    }
}
