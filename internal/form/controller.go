// Package form holds the state of the converter forms independently of how
// they are rendered.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fxconvert/internal/convert"
	"fxconvert/internal/currency"
)

// DefaultDebounce is the quiet period before an edit triggers a conversion.
const DefaultDebounce = 300 * time.Millisecond

// ConversionErrorMessage is shown when a rate could not be obtained.
const ConversionErrorMessage = "Failed to convert currency. Please try again."

var ErrUnknownCurrency = errors.New("unknown currency")

// Provenance records which amount field the user edited last.
type Provenance int

const (
	ProvenanceSource Provenance = iota
	ProvenanceTarget
)

func (p Provenance) String() string {
	if p == ProvenanceTarget {
		return "target"
	}
	return "source"
}

// State is a snapshot of the live form.
type State struct {
	SourceCurrency string
	TargetCurrency string
	SourceAmount   string
	TargetAmount   string
	Provenance     Provenance
	Loading        bool
	// Invalid is set when the edited amount is not a positive number.
	Invalid bool
	// Error is the user-facing message of the last failed conversion.
	Error string
}

// Converter computes conversions; *convert.Engine implements it.
type Converter interface {
	Convert(ctx context.Context, amount, source, target string) (convert.Result, error)
}

type ControllerConfig struct {
	SourceCurrency string
	TargetCurrency string
	Debounce       time.Duration
	Clock          Clock
	Logger         *zap.Logger
}

// Controller drives the two linked amount fields. Editing one field converts
// into the other after the debounce window. Only the direction matching the
// current provenance is ever written, so the controller never reacts to its
// own output.
type Controller struct {
	engine Converter
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	// forward converts source into target, reverse the opposite.
	forward *Debouncer
	reverse *Debouncer

	mu          sync.Mutex
	state       State
	inflight    int
	generation  uint64
	closed      bool
	subscribers []func(State)
}

func NewController(engine Converter, cfg ControllerConfig) (*Controller, error) {
	if cfg.SourceCurrency == "" {
		cfg.SourceCurrency = "GBP"
	}
	if cfg.TargetCurrency == "" {
		cfg.TargetCurrency = "USD"
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	source, err := normalizeCurrency(cfg.SourceCurrency)
	if err != nil {
		return nil, err
	}
	target, err := normalizeCurrency(cfg.TargetCurrency)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		engine:  engine,
		logger:  cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
		forward: NewDebouncer(cfg.Clock, cfg.Debounce),
		reverse: NewDebouncer(cfg.Clock, cfg.Debounce),
		state: State{
			SourceCurrency: source,
			TargetCurrency: target,
			Provenance:     ProvenanceSource,
		},
	}, nil
}

func normalizeCurrency(code string) (string, error) {
	c, ok := currency.Lookup(code)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return c.Code, nil
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive a snapshot after every change.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Controller) notify() {
	c.mu.Lock()
	s := c.state
	subs := append(([]func(State))(nil), c.subscribers...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// EditSource records a keystroke in the source amount field.
func (c *Controller) EditSource(amount string) {
	c.mu.Lock()
	c.state.SourceAmount = amount
	c.state.Provenance = ProvenanceSource
	c.scheduleLocked()
	c.mu.Unlock()
	c.notify()
}

// EditTarget records a keystroke in the target amount field.
func (c *Controller) EditTarget(amount string) {
	c.mu.Lock()
	c.state.TargetAmount = amount
	c.state.Provenance = ProvenanceTarget
	c.scheduleLocked()
	c.mu.Unlock()
	c.notify()
}

// SetSourceCurrency selects the source currency and refreshes the converted
// value against the amount already entered.
func (c *Controller) SetSourceCurrency(code string) error {
	return c.setCurrency(code, func(s *State, v string) { s.SourceCurrency = v })
}

// SetTargetCurrency selects the target currency and refreshes the converted
// value against the amount already entered.
func (c *Controller) SetTargetCurrency(code string) error {
	return c.setCurrency(code, func(s *State, v string) { s.TargetCurrency = v })
}

func (c *Controller) setCurrency(code string, set func(*State, string)) error {
	norm, err := normalizeCurrency(code)
	if err != nil {
		return err
	}
	c.mu.Lock()
	set(&c.state, norm)
	c.scheduleLocked()
	c.mu.Unlock()
	c.notify()
	return nil
}

// Swap exchanges currencies and amounts in one update. Nothing is
// recomputed: pending conversions are cancelled and in-flight results are
// dropped. Provenance moves with the value the user typed.
func (c *Controller) Swap() {
	c.mu.Lock()
	s := &c.state
	s.SourceCurrency, s.TargetCurrency = s.TargetCurrency, s.SourceCurrency
	s.SourceAmount, s.TargetAmount = s.TargetAmount, s.SourceAmount
	if s.Provenance == ProvenanceSource {
		s.Provenance = ProvenanceTarget
	} else {
		s.Provenance = ProvenanceSource
	}
	c.forward.Stop()
	c.reverse.Stop()
	c.generation++
	c.mu.Unlock()
	c.notify()
}

// Close stops pending timers and cancels in-flight requests.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.forward.Stop()
	c.reverse.Stop()
	c.mu.Unlock()
	c.cancel()
}

// Wait blocks until no conversion is scheduled or in flight, or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	tick := time.NewTicker(waitPollInterval)
	defer tick.Stop()
	for c.busy() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
	return nil
}

const waitPollInterval = 10 * time.Millisecond

func (c *Controller) busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0 || c.forward.Busy() || c.reverse.Busy()
}

func (c *Controller) scheduleLocked() {
	if c.closed {
		return
	}
	if c.state.Provenance == ProvenanceSource {
		c.forward.Schedule(func() { c.recompute(ProvenanceSource) })
		return
	}
	c.reverse.Schedule(func() { c.recompute(ProvenanceTarget) })
}

// inputsLocked returns the amount and the currency pair for a direction.
func (c *Controller) inputsLocked(dir Provenance) (amount, source, target string) {
	s := c.state
	if dir == ProvenanceSource {
		return s.SourceAmount, s.SourceCurrency, s.TargetCurrency
	}
	return s.TargetAmount, s.TargetCurrency, s.SourceCurrency
}

func (c *Controller) setOutputLocked(dir Provenance, v string) {
	if dir == ProvenanceSource {
		c.state.TargetAmount = v
		return
	}
	c.state.SourceAmount = v
}

// acquireLoading marks a recomputation in flight. The returned func releases
// it and must be called exactly once.
func (c *Controller) acquireLoading() func() {
	c.mu.Lock()
	c.inflight++
	c.state.Loading = true
	c.mu.Unlock()
	c.notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.inflight--
			c.state.Loading = c.inflight > 0
			c.mu.Unlock()
			c.notify()
		})
	}
}

func (c *Controller) recompute(dir Provenance) {
	c.mu.Lock()
	if c.closed || c.state.Provenance != dir {
		c.mu.Unlock()
		return
	}
	c.generation++
	gen := c.generation
	amount, source, target := c.inputsLocked(dir)
	c.mu.Unlock()

	log := c.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.Stringer("direction", dir),
		zap.String("source", source),
		zap.String("target", target),
	)

	release := c.acquireLoading()
	defer release()

	res, err := c.engine.Convert(c.ctx, amount, source, target)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer recomputation, a swap or a later edit of the other field
	// supersedes this result.
	if c.closed || gen != c.generation || c.state.Provenance != dir {
		log.Debug("dropping stale conversion result")
		return
	}

	switch {
	case err == nil:
		c.setOutputLocked(dir, res.Formatted())
		c.state.Invalid = false
		c.state.Error = ""
	case errors.Is(err, convert.ErrInvalidAmount):
		c.setOutputLocked(dir, "")
		c.state.Invalid = true
		c.state.Error = ""
	default:
		c.setOutputLocked(dir, "")
		c.state.Invalid = false
		c.state.Error = ConversionErrorMessage
		if !errors.Is(err, context.Canceled) {
			log.Error("conversion failed", zap.String("amount", strings.TrimSpace(amount)), zap.Error(err))
		}
	}
}
