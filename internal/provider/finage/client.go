package finage

import (
	"net/http"
	"strings"
)

const (
	baseURL = "https://api.finage.co.uk"
	// relayURL forwards requests to the API host and adds permissive CORS headers.
	relayURL = "https://proxy.corsfix.com"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=finage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FinageAPIClient is a client for the Finage forex conversion API.
type FinageAPIClient struct {
	// key is the API key sent as the apikey query parameter.
	key string
	// baseURL is the base URL for the API.
	baseURL string
	// relayURL is the relay the upstream URL is passed through. Empty means direct.
	relayURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// FinageAPIClientOption is a configuration option for the Finage API client.
type FinageAPIClientOption func(*FinageAPIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) FinageAPIClientOption {
	return func(c *FinageAPIClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRelayURL sets the relay endpoint. An empty string disables the relay.
func WithRelayURL(relayURL string) FinageAPIClientOption {
	return func(c *FinageAPIClient) {
		c.relayURL = strings.TrimRight(relayURL, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) FinageAPIClientOption {
	return func(c *FinageAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) FinageAPIClientOption {
	return func(c *FinageAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewFinageAPIClient creates a new Finage API client.
func NewFinageAPIClient(key string, options ...FinageAPIClientOption) (*FinageAPIClient, error) {
	var finageAPIClient = &FinageAPIClient{
		key:        key,
		baseURL:    baseURL,
		relayURL:   relayURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(finageAPIClient)
	}
	return finageAPIClient, nil
}
