package source

import (
    "sort"
    "time"
)

// SortAscending sorts s in place, oldest first. The sort is stable so
// samples sharing a timestamp keep their arrival order.
func SortAscending(s Series) {
    sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
}

// Latest returns the chronologically last sample. The series is sorted
// first since provider ordering is not trusted.
func Latest(s Series) (Sample, bool) {
    if len(s) == 0 {
        return Sample{}, false
    }
    SortAscending(s)
    return s[len(s)-1], true
}

// AsOf returns the most recent sample at or before t. The series is
// sorted ascending, then scanned from newest to oldest; the first sample
// with a time <= t wins, so a sample exactly at t is selected and samples
// after t never are. When maxStale > 0 and the gap between t and the
// selected sample exceeds it, the match is discarded: the price is too
// old to stand in for the requested time.
func AsOf(s Series, t time.Time, maxStale time.Duration) (Sample, bool) {
    SortAscending(s)
    for i := len(s) - 1; i >= 0; i-- {
        if s[i].Time.After(t) {
            continue
        }
        if maxStale > 0 && t.Sub(s[i].Time) > maxStale {
            return Sample{}, false
        }
        return s[i], true
    }
    return Sample{}, false
}
