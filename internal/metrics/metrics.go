package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
)

const namespace = "fxconvert"

// Metrics counts conversion activity. A nil *Metrics is a valid no-op.
type Metrics struct {
    CacheLookups *prometheus.CounterVec
    Fetches      *prometheus.CounterVec
    Conversions  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg when it is not nil.
func New(reg prometheus.Registerer) *Metrics {
    m := &Metrics{
        CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "rate_cache_lookups_total",
            Help:      "Rate cache lookups by result (hit, miss).",
        }, []string{"result"}),
        Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "rate_fetches_total",
            Help:      "Remote rate fetches by outcome.",
        }, []string{"outcome"}),
        Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "conversions_total",
            Help:      "Conversion attempts by outcome.",
        }, []string{"outcome"}),
    }
    if reg != nil {
        reg.MustRegister(m.CacheLookups, m.Fetches, m.Conversions)
    }
    return m
}

func (m *Metrics) CacheLookup(hit bool) {
    if m == nil { return }
    result := "miss"
    if hit { result = "hit" }
    m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) Fetch(outcome string) {
    if m == nil { return }
    m.Fetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Conversion(outcome string) {
    if m == nil { return }
    m.Conversions.WithLabelValues(outcome).Inc()
}
