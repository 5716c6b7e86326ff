package convert

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fxconvert/internal/metrics"
	"fxconvert/internal/provider"
	"fxconvert/internal/ratecache"
)

var (
	// ErrInvalidAmount is returned for input that is not a finite number > 0.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrConversionFailed wraps any failure to obtain a rate.
	ErrConversionFailed = errors.New("conversion failed")
)

// RateFetcher returns the spot rate for one unit of source in target.
//
//go:generate mockgen -package=convert_test -destination=mock_rate_fetcher_test.go -source=convert.go RateFetcher
type RateFetcher interface {
	FetchRate(ctx context.Context, source, target string) (float64, error)
}

// Result is one computed conversion.
type Result struct {
	Amount float64
	Rate   float64
	Value  float64
	// Cached is true when no fetch was needed (cache hit or identity).
	Cached bool
}

// Formatted is Value rounded to two decimals.
func (r Result) Formatted() string { return FormatAmount(r.Value) }

// FormatAmount renders v with exactly two decimals.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ParseAmount accepts a finite decimal number greater than zero.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %q is not positive", ErrInvalidAmount, s)
	}
	// Converting a huge exponent to float costs time proportional to 10^exp,
	// so the magnitude is bounded before InexactFloat64.
	magnitude := int(d.Exponent()) + len(d.Coefficient().String()) - 1
	if magnitude > maxExponent || magnitude < minExponent {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || f <= 0 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	return f, nil
}

// float64 decimal exponent range, including subnormals.
const (
	maxExponent = 308
	minExponent = -324
)

// Engine converts amounts using the session cache and falls back to the
// fetcher on a miss.
type Engine struct {
	cache   *ratecache.Cache
	fetcher RateFetcher
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(e *Engine) { e.metrics = m } }

func NewEngine(cache *ratecache.Cache, fetcher RateFetcher, opts ...Option) *Engine {
	e := &Engine{cache: cache, fetcher: fetcher, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Convert converts amount from source to target.
func (e *Engine) Convert(ctx context.Context, amount, source, target string) (Result, error) {
	x, err := ParseAmount(amount)
	if err != nil {
		e.metrics.Conversion("invalid_amount")
		return Result{}, err
	}

	source, target = strings.ToUpper(source), strings.ToUpper(target)
	if source == target {
		e.metrics.Conversion("identity")
		return Result{Amount: x, Rate: 1, Value: x, Cached: true}, nil
	}

	rate, cached, err := e.rate(ctx, source, target)
	if err != nil {
		e.metrics.Conversion("failed")
		return Result{}, err
	}
	e.metrics.Conversion("ok")
	return Result{Amount: x, Rate: rate, Value: x * rate, Cached: cached}, nil
}

// Rate returns the source->target rate, fetching and caching it on a miss.
func (e *Engine) Rate(ctx context.Context, source, target string) (float64, error) {
	source, target = strings.ToUpper(source), strings.ToUpper(target)
	if source == target {
		return 1, nil
	}
	rate, _, err := e.rate(ctx, source, target)
	return rate, err
}

func (e *Engine) rate(ctx context.Context, source, target string) (float64, bool, error) {
	if r, ok := e.cache.Get(source, target); ok {
		e.metrics.CacheLookup(true)
		return r, true, nil
	}
	e.metrics.CacheLookup(false)

	r, err := e.fetcher.FetchRate(ctx, source, target)
	if err != nil {
		e.metrics.Fetch(fetchOutcome(err))
		e.logger.Warn("fetch rate failed",
			zap.String("source", source),
			zap.String("target", target),
			zap.Error(err),
		)
		return 0, false, fmt.Errorf("%w: %s/%s: %w", ErrConversionFailed, source, target, err)
	}
	// Put validates the rate; a rejected rate leaves the cache untouched.
	if err := e.cache.Put(source, target, r); err != nil {
		e.metrics.Fetch("parse_error")
		e.logger.Warn("provider returned unusable rate",
			zap.String("source", source),
			zap.String("target", target),
			zap.Float64("rate", r),
		)
		return 0, false, fmt.Errorf("%w: %w: %w", ErrConversionFailed, provider.ErrParse, err)
	}
	e.metrics.Fetch("ok")
	e.logger.Debug("rate cached",
		zap.String("source", source),
		zap.String("target", target),
		zap.Float64("rate", r),
	)
	return r, false, nil
}

func fetchOutcome(err error) string {
	switch {
	case errors.Is(err, provider.ErrParse):
		return "parse_error"
	case errors.Is(err, provider.ErrNetwork):
		return "network_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
