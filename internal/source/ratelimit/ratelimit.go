package ratelimit

import (
    "context"
    "sync"
    "time"

    "pricesource/internal/source"
)

// MinInterval wraps a source and enforces a minimum time between upstream
// calls. Both entrypoints share the gate. Concurrent calls wait until the
// interval has elapsed since the last call, or return early if the
// context is canceled.
type MinInterval struct {
    S        source.Source
    Interval time.Duration

    mu   sync.Mutex
    last time.Time
}

func (m *MinInterval) Name() string { return m.S.Name() }

func (m *MinInterval) LatestPrice(ctx context.Context, symbol string) (*source.Price, error) {
    if err := m.wait(ctx); err != nil {
        return nil, err
    }
    rec, err := m.S.LatestPrice(ctx, symbol)
    m.mark()
    return rec, err
}

func (m *MinInterval) HistoricalPrice(ctx context.Context, symbol string, t time.Time) (*source.Price, error) {
    if err := m.wait(ctx); err != nil {
        return nil, err
    }
    rec, err := m.S.HistoricalPrice(ctx, symbol, t)
    m.mark()
    return rec, err
}

func (m *MinInterval) wait(ctx context.Context) error {
    if m.Interval <= 0 {
        return nil
    }
    m.mu.Lock()
    wait := time.Until(m.last.Add(m.Interval))
    m.mu.Unlock()
    if wait <= 0 {
        return nil
    }
    t := time.NewTimer(wait)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}

func (m *MinInterval) mark() {
    if m.Interval <= 0 {
        return
    }
    m.mu.Lock()
    m.last = time.Now()
    m.mu.Unlock()
}
