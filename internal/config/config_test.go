package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray config.json or .env is read.
func chdir(t *testing.T) string {
    t.Helper()
    dir := t.TempDir()
    // equivalent of t.Chdir (Go 1.24+): restore the working directory on cleanup
    wd, err := os.Getwd()
    require.NoError(t, err)
    require.NoError(t, os.Chdir(dir))
    t.Cleanup(func() { _ = os.Chdir(wd) })
    return dir
}

func TestLoad_Defaults(t *testing.T) {
    chdir(t)
    t.Setenv("FINAGE_API_KEY", "")

    cfg, err := Load("")
    require.NoError(t, err)
    require.Equal(t, PlaceholderAPIKey, cfg.Finage.APIKey)
    require.False(t, cfg.Finage.HasAPIKey())
    require.Equal(t, "https://proxy.corsfix.com", cfg.Finage.RelayURL)
    require.Equal(t, 300*time.Millisecond, cfg.Converter.Debounce())
    require.Equal(t, "GBP", cfg.Converter.From)
    require.Equal(t, "USD", cfg.Converter.To)
    require.Zero(t, cfg.Finage.RequestTimeout())
}

func TestLoad_FileThenEnv(t *testing.T) {
    dir := chdir(t)
    path := filepath.Join(dir, "fx.json")
    require.NoError(t, os.WriteFile(path, []byte(`{
        "finage": {"api_key": "from-file", "relay_url": "", "max_requests_per_minute": 30},
        "converter": {"debounce_ms": 150, "from": "EUR"},
        "log": {"level": "debug"}
    }`), 0o600))
    t.Setenv("FINAGE_API_KEY", "from-env")
    t.Setenv("CONVERTER_TO", "JPY")
    t.Setenv("FINAGE_MIN_INTERVAL_MS", "250")

    cfg, err := Load(path)
    require.NoError(t, err)
    require.Equal(t, "from-env", cfg.Finage.APIKey)
    require.True(t, cfg.Finage.HasAPIKey())
    require.Equal(t, "", cfg.Finage.RelayURL)
    require.Equal(t, 30, cfg.Finage.MaxRPM)
    require.Equal(t, 250*time.Millisecond, cfg.Finage.MinRequestInterval())
    require.Equal(t, 150*time.Millisecond, cfg.Converter.Debounce())
    require.Equal(t, "EUR", cfg.Converter.From)
    require.Equal(t, "JPY", cfg.Converter.To)
    require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_IgnoresUnprefixedEnv(t *testing.T) {
    chdir(t)
    t.Setenv("TO", "CHF")
    t.Setenv("FROM", "JPY")
    t.Setenv("BURST", "9")
    t.Setenv("ADDR", ":1234")
    t.Setenv("OUTPUT", "/tmp/elsewhere.log")
    t.Setenv("API_KEY", "someone-elses-key")
    t.Setenv("FINAGE_API_KEY", "")
    require.NoError(t, os.Unsetenv("FINAGE_API_KEY"))

    cfg, err := Load("")
    require.NoError(t, err)
    require.Equal(t, "GBP", cfg.Converter.From)
    require.Equal(t, "USD", cfg.Converter.To)
    require.Zero(t, cfg.Finage.Burst)
    require.Empty(t, cfg.Metrics.Addr)
    require.Equal(t, "stderr", cfg.Log.Output)
    require.Equal(t, PlaceholderAPIKey, cfg.Finage.APIKey)
}

func TestLoad_PrefixedEnvNames(t *testing.T) {
    chdir(t)
    t.Setenv("FINAGE_MAX_RPM", "120")
    t.Setenv("FINAGE_BURST", "4")
    t.Setenv("FINAGE_REQUEST_TIMEOUT_SEC", "7")
    t.Setenv("FINAGE_BASE_URL", "http://localhost:8080")
    t.Setenv("LOG_OUTPUT", "stdout")

    cfg, err := Load("")
    require.NoError(t, err)
    require.Equal(t, 120, cfg.Finage.MaxRPM)
    require.Equal(t, 4, cfg.Finage.Burst)
    require.Equal(t, 7*time.Second, cfg.Finage.RequestTimeout())
    require.Equal(t, "http://localhost:8080", cfg.Finage.BaseURL)
    require.Equal(t, "stdout", cfg.Log.Output)
}

func TestLoad_DotEnv(t *testing.T) {
    dir := chdir(t)
    require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINAGE_API_KEY=dotenv-key\nMETRICS_ADDR=:9102\n"), 0o600))
    // t.Setenv registers cleanup so values written by godotenv are restored
    t.Setenv("FINAGE_API_KEY", "")
    t.Setenv("METRICS_ADDR", "")
    require.NoError(t, os.Unsetenv("FINAGE_API_KEY"))
    require.NoError(t, os.Unsetenv("METRICS_ADDR"))

    cfg, err := Load("")
    require.NoError(t, err)
    require.Equal(t, "dotenv-key", cfg.Finage.APIKey)
    require.Equal(t, ":9102", cfg.Metrics.Addr)
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
    dir := chdir(t)

    cfg, err := Load(filepath.Join(dir, "nope.json"))
    require.NoError(t, err)
    require.Equal(t, Default().Converter, cfg.Converter)
}

func TestLoad_BadJSON(t *testing.T) {
    dir := chdir(t)
    path := filepath.Join(dir, "bad.json")
    require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

    _, err := Load(path)
    require.ErrorContains(t, err, "parse config")
}

func TestLoad_BadEnvValue(t *testing.T) {
    chdir(t)
    t.Setenv("CONVERTER_DEBOUNCE_MS", "soon")

    _, err := Load("")
    require.ErrorContains(t, err, "parse env")
}
