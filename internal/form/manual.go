package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"fxconvert/internal/convert"
	"fxconvert/internal/currency"
	"fxconvert/internal/provider"
)

// InvalidAmountMessage is shown when Convert is pressed without a usable amount.
const InvalidAmountMessage = "Please enter a valid amount"

var ErrBusy = errors.New("conversion already in progress")

// RemoteConverter converts a whole amount upstream; provider.Provider implements it.
type RemoteConverter interface {
	Convert(ctx context.Context, from, to string, amount float64) (provider.Conversion, error)
}

// ManualState is a snapshot of the button-driven form.
type ManualState struct {
	From    string
	To      string
	Amount  string
	Result  *provider.Conversion
	Loading bool
	Error   string
}

// Manual is the form variant where the user presses Convert and the provider
// converts the entered amount directly.
type Manual struct {
	remote RemoteConverter
	logger *zap.Logger

	mu    sync.Mutex
	state ManualState
}

func NewManual(remote RemoteConverter, from, to string, logger *zap.Logger) (*Manual, error) {
	if from == "" {
		from = "GBP"
	}
	if to == "" {
		to = "USD"
	}
	f, err := normalizeCurrency(from)
	if err != nil {
		return nil, err
	}
	t, err := normalizeCurrency(to)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manual{remote: remote, logger: logger, state: ManualState{From: f, To: t}}, nil
}

func (m *Manual) State() ManualState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manual) SetAmount(amount string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Amount = amount
}

func (m *Manual) SetFrom(code string) error {
	norm, err := normalizeCurrency(code)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.From = norm
	return nil
}

func (m *Manual) SetTo(code string) error {
	norm, err := normalizeCurrency(code)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.To = norm
	return nil
}

// Swap exchanges the currencies and clears the displayed result.
func (m *Manual) Swap() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.From, m.state.To = m.state.To, m.state.From
	m.state.Result = nil
}

// CanConvert mirrors the enabled state of the Convert button.
func (m *Manual) CanConvert() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.state.Loading && m.state.Amount != ""
}

// Convert requests the conversion of the entered amount. The previous
// result stays on screen when the request fails.
func (m *Manual) Convert(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Loading {
		m.mu.Unlock()
		return ErrBusy
	}
	amount, err := convert.ParseAmount(m.state.Amount)
	if err != nil {
		m.state.Error = InvalidAmountMessage
		m.mu.Unlock()
		return err
	}
	from, to := m.state.From, m.state.To
	m.state.Loading = true
	m.state.Error = ""
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.state.Loading = false
		m.mu.Unlock()
	}()

	conv, err := m.remote.Convert(ctx, from, to, amount)
	if err != nil {
		m.logger.Error("conversion error", zap.String("from", from), zap.String("to", to), zap.Error(err))
		m.mu.Lock()
		m.state.Error = ConversionErrorMessage
		m.mu.Unlock()
		return fmt.Errorf("%w: %w", convert.ErrConversionFailed, err)
	}

	m.mu.Lock()
	m.state.Result = &conv
	m.mu.Unlock()
	return nil
}

// Summary renders the result panel of a conversion.
func Summary(c provider.Conversion, loc *time.Location) []string {
	if loc == nil {
		loc = time.Local
	}
	return []string{
		fmt.Sprintf("%s = %s", currency.Format(c.Amount, c.From), currency.Format(c.Value, c.To)),
		fmt.Sprintf("Exchange Rate: 1 %s = %.4f %s", c.From, c.Rate(), c.To),
		fmt.Sprintf("Last Updated: %s", c.Timestamp.In(loc).Format("1/2/2006, 3:04:05 PM")),
	}
}
