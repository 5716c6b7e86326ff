package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "time"

    "github.com/joho/godotenv"
    "github.com/kelseyhightower/envconfig"
)

// PlaceholderAPIKey is used when no key is supplied. Requests made with it
// are rejected upstream; it only keeps template builds runnable.
const PlaceholderAPIKey = "{{FINAGE_API_KEY}}"

// Env names are built from the field names with split_words, so every
// variable carries its section prefix (FINAGE_API_KEY, CONVERTER_FROM, ...)
// and no bare name like TO or ADDR is ever consulted.
type Finage struct {
    APIKey            string `json:"api_key" split_words:"true"`
    BaseURL           string `json:"base_url" split_words:"true"`
    RelayURL          string `json:"relay_url" split_words:"true"`
    RequestTimeoutSec int    `json:"request_timeout_sec" split_words:"true"`
    MaxRPM            int    `json:"max_requests_per_minute" split_words:"true"`
    Burst             int    `json:"burst"`
    MinIntervalMS     int    `json:"min_request_interval_ms" split_words:"true"`
}

type Converter struct {
    DebounceMS int    `json:"debounce_ms" split_words:"true"`
    From       string `json:"from"`
    To         string `json:"to"`
}

type Log struct {
    Level  string `json:"level"`
    Output string `json:"output"`
}

type Metrics struct {
    Addr string `json:"addr"`
}

type Config struct {
    Finage    Finage    `json:"finage" envconfig:"FINAGE"`
    Converter Converter `json:"converter" envconfig:"CONVERTER"`
    Log       Log       `json:"log" envconfig:"LOG"`
    Metrics   Metrics   `json:"metrics" envconfig:"METRICS"`
}

func Default() Config {
    return Config{
        Finage: Finage{
            BaseURL:  "https://api.finage.co.uk",
            RelayURL: "https://proxy.corsfix.com",
        },
        Converter: Converter{
            DebounceMS: 300,
            From:       "GBP",
            To:         "USD",
        },
        Log: Log{Level: "info", Output: "stderr"},
    }
}

func (c Converter) Debounce() time.Duration {
    return time.Duration(c.DebounceMS) * time.Millisecond
}

func (f Finage) RequestTimeout() time.Duration {
    return time.Duration(f.RequestTimeoutSec) * time.Second
}

func (f Finage) MinRequestInterval() time.Duration {
    return time.Duration(f.MinIntervalMS) * time.Millisecond
}

// HasAPIKey reports whether a real key was configured.
func (f Finage) HasAPIKey() bool {
    return f.APIKey != "" && f.APIKey != PlaceholderAPIKey
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. A .env file in the working directory and then the
// process environment override the file.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    if err := applyEnv(&cfg); err != nil {
        return cfg, err
    }
    if cfg.Finage.APIKey == "" {
        cfg.Finage.APIKey = PlaceholderAPIKey
    }
    if cfg.Converter.DebounceMS < 0 {
        cfg.Converter.DebounceMS = 0
    }
    return cfg, nil
}

func applyEnv(cfg *Config) error {
    // godotenv never overrides variables that are already set.
    if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
        return fmt.Errorf("load .env: %w", err)
    }
    if err := envconfig.Process("", cfg); err != nil {
        return fmt.Errorf("parse env: %w", err)
    }
    return nil
}
