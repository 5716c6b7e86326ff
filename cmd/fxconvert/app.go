package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fxconvert/internal/config"
	"fxconvert/internal/convert"
	"fxconvert/internal/httpx"
	"fxconvert/internal/metrics"
	"fxconvert/internal/provider"
	"fxconvert/internal/provider/finage"
	"fxconvert/internal/provider/finageadapter"
	"fxconvert/internal/provider/ratelimit"
	"fxconvert/internal/ratecache"
)

// app is the wired session: one provider, one rate cache, one engine.
type app struct {
	provider provider.Provider
	cache    *ratecache.Cache
	engine   *convert.Engine
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	if !cfg.Finage.HasAPIKey() {
		logger.Warn("FINAGE_API_KEY not set; requests will be rejected upstream",
			zap.String("placeholder", config.PlaceholderAPIKey))
	}

	httpClient := httpx.New(cfg.Finage.RequestTimeout())
	client, err := finage.NewFinageAPIClient(
		cfg.Finage.APIKey,
		finage.WithHTTPClient(httpClient),
		finage.WithBaseURL(cfg.Finage.BaseURL),
		finage.WithRelayURL(cfg.Finage.RelayURL),
	)
	if err != nil {
		return nil, err
	}

	var p provider.Provider = finageadapter.New(finageadapter.Config{}, client)
	p = ratelimit.Wrap(p, cfg.Finage.MaxRPM, cfg.Finage.Burst, cfg.Finage.MinRequestInterval())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cache := ratecache.New()

	return &app{
		provider: p,
		cache:    cache,
		engine:   convert.NewEngine(cache, p, convert.WithLogger(logger), convert.WithMetrics(m)),
		metrics:  m,
		registry: reg,
	}, nil
}

// serveMetrics exposes /metrics on addr until ctx is done. Empty addr disables it.
func (a *app) serveMetrics(ctx context.Context, addr string, logger *zap.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
