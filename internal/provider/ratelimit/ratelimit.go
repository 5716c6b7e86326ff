package ratelimit

import (
    "context"
    "sync"
    "time"

    "fxconvert/internal/provider"
)

// MinInterval wraps a provider and enforces a minimum time between calls.
// Concurrent calls will wait until the interval has elapsed since the last call,
// or return early if the context is canceled. It never retries.
type MinInterval struct {
    P           provider.Provider
    Interval    time.Duration
    mu          sync.Mutex
    last        time.Time
}

func (m *MinInterval) Name() string { return m.P.Name() }

func (m *MinInterval) Convert(ctx context.Context, from, to string, amount float64) (provider.Conversion, error) {
    if err := m.wait(ctx); err != nil { return provider.Conversion{}, err }
    defer m.mark()
    return m.P.Convert(ctx, from, to, amount)
}

func (m *MinInterval) FetchRate(ctx context.Context, from, to string) (float64, error) {
    if err := m.wait(ctx); err != nil { return 0, err }
    defer m.mark()
    return m.P.FetchRate(ctx, from, to)
}

func (m *MinInterval) wait(ctx context.Context) error {
    if m.Interval <= 0 { return nil }
    // simple gate: ensure at least Interval since last
    m.mu.Lock()
    wait := time.Until(m.last.Add(m.Interval))
    m.mu.Unlock()
    if wait <= 0 { return nil }
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
    if m.Interval <= 0 { return }
    m.mu.Lock()
    m.last = time.Now()
    m.mu.Unlock()
}
