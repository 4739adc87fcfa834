package aggregate

import (
    "pricesource/internal/source"
)

// Record pairs a resolved price with the source that produced it.
type Record struct {
    Source string       `json:"source"`
    Symbol string       `json:"symbol"`
    Price  source.Price `json:"record"`
}

// Freshest picks the record with the newest sample time. Ties keep the
// earlier entry, so callers control precedence by input order.
func Freshest(records []Record) (Record, bool) {
    if len(records) == 0 {
        return Record{}, false
    }
    best := records[0]
    for _, r := range records[1:] {
        if r.Price.Time.After(best.Price.Time) {
            best = r
        }
    }
    return best, true
}
