package ratelimit

import (
    "context"
    "sync"
    "time"

    "fxconvert/internal/provider"
)

// TokenBucket provides a stdlib-only token bucket limiter.
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
    if tokensPerSecond <= 0 { tokensPerSecond = 0.0000001 }
    if burst <= 0 { burst = 1 }
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
        deficit := 1 - tb.tokens
        tb.mu.Unlock()
        waitDur := time.Duration(deficit/tb.rate*1e9) * time.Nanosecond
        if waitDur <= 0 { waitDur = time.Millisecond }
        timer := time.NewTimer(waitDur)
        select {
        case <-ctx.Done():
            timer.Stop()
            return ctx.Err()
        case <-timer.C:
        }
    }
}

// TokenBucketProvider wraps a Provider and gates calls using a token bucket.
type TokenBucketProvider struct {
    P  provider.Provider
    TB *TokenBucket
}

func (t *TokenBucketProvider) Name() string { return t.P.Name() }

func (t *TokenBucketProvider) Convert(ctx context.Context, from, to string, amount float64) (provider.Conversion, error) {
    if t.TB != nil {
        if err := t.TB.wait(ctx); err != nil { return provider.Conversion{}, err }
    }
    return t.P.Convert(ctx, from, to, amount)
}

func (t *TokenBucketProvider) FetchRate(ctx context.Context, from, to string) (float64, error) {
    if t.TB != nil {
        if err := t.TB.wait(ctx); err != nil { return 0, err }
    }
    return t.P.FetchRate(ctx, from, to)
}

// Wrap applies the limiter selected by the settings: a token bucket when
// requestsPerMinute is set, otherwise a minimum interval, otherwise nothing.
func Wrap(p provider.Provider, requestsPerMinute, burst int, minInterval time.Duration) provider.Provider {
    switch {
    case requestsPerMinute > 0:
        if burst <= 0 { burst = 1 }
        return &TokenBucketProvider{P: p, TB: NewTokenBucket(float64(requestsPerMinute)/60.0, burst)}
    case minInterval > 0:
        return &MinInterval{P: p, Interval: minInterval}
    default:
        return p
    }
}
