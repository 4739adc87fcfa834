package ratelimit

import (
    "context"
    "sync"
    "time"

    "pricesource/internal/source"
)

// TokenBucket is a stdlib-only token bucket limiter.
// - rate: tokens per second
// - capacity: maximum tokens the bucket can hold (burst)
type TokenBucket struct {
    rate     float64
    capacity float64

    mu     sync.Mutex
    tokens float64
    last   time.Time
}

func NewTokenBucket(tokensPerSecond float64, burst int) *TokenBucket {
    if tokensPerSecond <= 0 {
        tokensPerSecond = 0.0000001
    }
    if burst <= 0 {
        burst = 1
    }
    return &TokenBucket{
        rate:     tokensPerSecond,
        capacity: float64(burst),
        tokens:   float64(burst), // start full to allow an initial burst
        last:     time.Now(),
    }
}

// wait blocks until one token is available or context is canceled.
func (tb *TokenBucket) wait(ctx context.Context) error {
    for {
        tb.mu.Lock()
        now := time.Now()
        // Refill
        elapsed := now.Sub(tb.last).Seconds()
        if elapsed > 0 {
            tb.tokens += elapsed * tb.rate
            if tb.tokens > tb.capacity {
                tb.tokens = tb.capacity
            }
            tb.last = now
        }
        if tb.tokens >= 1 {
            tb.tokens -= 1
            tb.mu.Unlock()
            return nil
        }
        // Not enough tokens; compute sleep until one accrues
        need := 1 - tb.tokens
        sleep := time.Duration(need / tb.rate * float64(time.Second))
        tb.mu.Unlock()

        t := time.NewTimer(sleep)
        select {
        case <-ctx.Done():
            t.Stop()
            return ctx.Err()
        case <-t.C:
        }
    }
}

// TokenBucketSource wraps a source with a shared token bucket; every
// upstream call, latest or historical, consumes one token.
type TokenBucketSource struct {
    S  source.Source
    TB *TokenBucket
}

func (t *TokenBucketSource) Name() string { return t.S.Name() }

func (t *TokenBucketSource) LatestPrice(ctx context.Context, symbol string) (*source.Price, error) {
    if t.TB != nil {
        if err := t.TB.wait(ctx); err != nil {
            return nil, err
        }
    }
    return t.S.LatestPrice(ctx, symbol)
}

func (t *TokenBucketSource) HistoricalPrice(ctx context.Context, symbol string, at time.Time) (*source.Price, error) {
    if t.TB != nil {
        if err := t.TB.wait(ctx); err != nil {
            return nil, err
        }
    }
    return t.S.HistoricalPrice(ctx, symbol, at)
}
