package finageadapter

import (
    "context"
    "fmt"
    "math"
    "strings"
    "time"

    "fxconvert/internal/provider"
    "fxconvert/internal/provider/finage"
)

type Config struct {
    Name string // display name, default: Finage
}

// Adapter exposes the Finage client as a provider.Provider.
type Adapter struct {
    cfg    Config
    client *finage.FinageAPIClient
}

func New(cfg Config, client *finage.FinageAPIClient) *Adapter {
    if cfg.Name == "" { cfg.Name = "Finage" }
    return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Convert(ctx context.Context, from, to string, amount float64) (provider.Conversion, error) {
    raw, err := a.client.ConvertForex(ctx, from, to, amount)
    if err != nil {
        return provider.Conversion{}, fmt.Errorf("%s: %w", a.cfg.Name, err)
    }
    value := *raw.Value
    if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
        return provider.Conversion{}, fmt.Errorf("%s: %w: non-positive value %v", a.cfg.Name, provider.ErrParse, value)
    }

    out := provider.Conversion{
        From:   strings.ToUpper(from),
        To:     strings.ToUpper(to),
        Amount: amount,
        Value:  value,
    }
    // The provider echoes the pair and amount; prefer its view when present.
    if raw.From != "" { out.From = raw.From }
    if raw.To != "" { out.To = raw.To }
    if raw.Amount != nil && *raw.Amount > 0 { out.Amount = *raw.Amount }
    out.Timestamp = parseEpochMaybeMillis(raw.Timestamp, time.Now().UTC())
    return out, nil
}

func (a *Adapter) FetchRate(ctx context.Context, from, to string) (float64, error) {
    conv, err := a.Convert(ctx, from, to, 1)
    if err != nil {
        return 0, err
    }
    return conv.Rate(), nil
}

func parseEpochMaybeMillis(v int64, fallback time.Time) time.Time {
    if v <= 0 { return fallback }
    if v > 1_000_000_000_000 { // ms
        return time.UnixMilli(v).UTC()
    }
    return time.Unix(v, 0).UTC()
}
