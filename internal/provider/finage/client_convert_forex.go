package finage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fxconvert/internal/provider"
)

// ForexConversion is the body returned by /convert/forex.
//
//	{"from":"GBP","to":"USD","amount":1,"value":1.2712,"timestamp":1700000000000}
type ForexConversion struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Amount    *float64 `json:"amount"`
	Value     *float64 `json:"value"`
	Timestamp int64    `json:"timestamp"`
}

// ConvertForex converts amount units of from into to.
func (c *FinageAPIClient) ConvertForex(ctx context.Context, from, to string, amount float64, opts ...FinageAPIClientOption) (*ForexConversion, error) {
	var override = &FinageAPIClient{
		key:        c.key,
		baseURL:    c.baseURL,
		relayURL:   c.relayURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
	}
	for _, opt := range opts {
		opt(override)
	}

	query := url.Values{}
	query.Set("apikey", override.key)
	upstream := fmt.Sprintf("%s/convert/forex/%s/%s/%s?%s",
		override.baseURL,
		url.PathEscape(strings.ToUpper(from)),
		url.PathEscape(strings.ToUpper(to)),
		strconv.FormatFloat(amount, 'f', -1, 64),
		query.Encode(),
	)
	target := upstream
	if override.relayURL != "" {
		target = override.relayURL + "/?" + upstream
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: performing request: %w", provider.ErrNetwork, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		break

	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: unauthorized", provider.ErrNetwork)

	case res.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limited", provider.ErrNetwork)

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("%w: unexpected status code: %d: %s", provider.ErrNetwork, res.StatusCode, string(b))
	}

	var body ForexConversion
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding conversion response: %w", provider.ErrParse, err)
	}
	if body.Value == nil {
		return nil, fmt.Errorf("%w: conversion response has no value", provider.ErrParse)
	}

	return &body, nil
}
