// Package cnn fetches the CNN Fear & Greed graphdata payload and pulls
// typed values out of its loosely structured JSON. All shape checking
// happens here; downstream packages only see typed results or typed
// errors.
package cnn

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// DefaultAPIURL is the public graphdata endpoint.
const DefaultAPIURL = "https://production.dataviz.cnn.io/index/fearandgreed/graphdata"

// DefaultUserAgent is a descriptive browser identity; the endpoint
// rejects requests without one.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Document is the parsed top-level payload. Values stay raw until a
// reader asks for a specific key.
type Document map[string]json.RawMessage

// Client fetches the graphdata payload.
type Client struct {
	apiURL     string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint. Empty apiURL or
// userAgent fall back to the defaults.
func NewClient(apiURL, userAgent string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		apiURL:    apiURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch issues a single GET and returns the parsed payload. There is no
// retry; a failed fetch ends the caller's pipeline. Errors are
// *RequestError, *HTTPError, or *DecodeError.
func (c *Client) Fetch(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return doc, nil
}
