// Package ratecache holds the session's exchange rates.
//
// Every write stores the direct rate and its inverse together, so a pair is
// either cached in both directions or not at all. Entries never expire.
package ratecache

import (
    "errors"
    "fmt"
    "math"
    "strings"
    "sync"
)

var (
    ErrInvalidRate  = errors.New("rate must be positive and finite")
    ErrIdentityPair = errors.New("identity pair is not cached")
)

// Pair is an ordered currency pair.
type Pair struct {
    Source string
    Target string
}

func (p Pair) String() string { return p.Source + "/" + p.Target }

// Inverse returns the pair with source and target exchanged.
func (p Pair) Inverse() Pair { return Pair{Source: p.Target, Target: p.Source} }

func pairOf(source, target string) Pair {
    return Pair{Source: strings.ToUpper(source), Target: strings.ToUpper(target)}
}

// Cache maps ordered currency pairs to multipliers such that
// target = source * rate. The zero value is ready to use.
type Cache struct {
    mu    sync.RWMutex
    rates map[Pair]float64
}

func New() *Cache {
    return &Cache{rates: make(map[Pair]float64)}
}

// Get returns the cached rate for source->target. It never fetches.
func (c *Cache) Get(source, target string) (float64, bool) {
    p := pairOf(source, target)
    if p.Source == p.Target {
        return 0, false
    }
    c.mu.RLock()
    defer c.mu.RUnlock()
    r, ok := c.rates[p]
    return r, ok
}

// Put stores source->target = rate and target->source = 1/rate in one update,
// overwriting previous entries for both directions.
func (c *Cache) Put(source, target string, rate float64) error {
    p := pairOf(source, target)
    if p.Source == p.Target {
        return fmt.Errorf("put %s: %w", p, ErrIdentityPair)
    }
    if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
        return fmt.Errorf("put %s=%v: %w", p, rate, ErrInvalidRate)
    }
    inverse := 1 / rate
    if math.IsInf(inverse, 0) || inverse == 0 {
        return fmt.Errorf("put %s=%v: %w", p, rate, ErrInvalidRate)
    }

    c.mu.Lock()
    defer c.mu.Unlock()
    if c.rates == nil {
        c.rates = make(map[Pair]float64)
    }
    c.rates[p] = rate
    c.rates[p.Inverse()] = inverse
    return nil
}

// Len reports the number of directed entries (always even).
func (c *Cache) Len() int {
    c.mu.RLock()
    defer c.mu.RUnlock()
    return len(c.rates)
}

// Snapshot copies the current entries.
func (c *Cache) Snapshot() map[Pair]float64 {
    c.mu.RLock()
    defer c.mu.RUnlock()
    out := make(map[Pair]float64, len(c.rates))
    for k, v := range c.rates {
        out[k] = v
    }
    return out
}
