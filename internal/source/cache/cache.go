package cache

import (
    "context"
    "sync"
    "time"

    "pricesource/internal/source"
)

// entry stores one cached latest-price record with expiry.
type entry struct {
    expiresAt time.Time
    rec       source.Price
}

// Source caches latest-price lookups per symbol for a TTL. Historical
// lookups pass through: arbitrary query times defeat keying, and the
// upstream window math already bounds those calls. Not-found results are
// not cached so a symbol that starts trading shows up immediately.
type Source struct {
    S        source.Source
    TTL      time.Duration
    MaxItems int

    mu    sync.RWMutex
    items map[string]entry // key: symbol
}

func (c *Source) Name() string { return c.S.Name() }

func (c *Source) LatestPrice(ctx context.Context, symbol string) (*source.Price, error) {
    if c.TTL <= 0 {
        return c.S.LatestPrice(ctx, symbol)
    }

    now := time.Now()
    c.mu.RLock()
    e, ok := c.items[symbol]
    c.mu.RUnlock()
    if ok && now.Before(e.expiresAt) {
        rec := e.rec
        return &rec, nil
    }

    rec, err := c.S.LatestPrice(ctx, symbol)
    if err != nil || rec == nil {
        return rec, err
    }

    c.mu.Lock()
    if c.items == nil {
        c.items = make(map[string]entry)
    }
    c.items[symbol] = entry{expiresAt: now.Add(c.TTL), rec: *rec}
    // best-effort cap cache size: expired first, then arbitrary
    if c.MaxItems > 0 && len(c.items) > c.MaxItems {
        for k, v := range c.items {
            if now.After(v.expiresAt) {
                delete(c.items, k)
            }
            if len(c.items) <= c.MaxItems {
                break
            }
        }
        for k := range c.items {
            if len(c.items) <= c.MaxItems {
                break
            }
            delete(c.items, k)
        }
    }
    c.mu.Unlock()
    return rec, nil
}

func (c *Source) HistoricalPrice(ctx context.Context, symbol string, t time.Time) (*source.Price, error) {
    return c.S.HistoricalPrice(ctx, symbol, t)
}
