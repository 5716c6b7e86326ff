package provider

import (
    "context"
    "errors"
    "time"
)

var (
    // ErrNetwork covers transport failures and non-successful HTTP statuses.
    ErrNetwork = errors.New("network error")
    // ErrParse is returned when a response body is not the expected shape.
    ErrParse = errors.New("parse error")
)

// Conversion is the normalized result of converting an amount between two
// currencies, as returned by the forex provider.
type Conversion struct {
    From      string    `json:"from"`
    To        string    `json:"to"`
    Amount    float64   `json:"amount"`
    Value     float64   `json:"value"`
    Timestamp time.Time `json:"timestamp"`
}

// Rate is the implied spot rate of the conversion.
func (c Conversion) Rate() float64 {
    if c.Amount == 0 { return 0 }
    return c.Value / c.Amount
}

type Provider interface {
    Name() string
    // Convert converts amount units of from into to.
    Convert(ctx context.Context, from, to string, amount float64) (Conversion, error)
    // FetchRate returns the spot rate for exactly one unit of from in to.
    FetchRate(ctx context.Context, from, to string) (float64, error)
}
