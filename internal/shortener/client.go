// Package shortener is the client for the external link-shortening
// provider. The provider owns short-code generation and redirect
// hosting; this backend only submits destinations and stores the result.
package shortener

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultEndpoint = "https://api.rebrandly.com/v1/links"
	defaultDomain   = "rebrand.ly"
	defaultTimeout  = 10 * time.Second
)

// ErrNoShortURL is returned when the provider responds successfully but
// without a short URL.
var ErrNoShortURL = errors.New("provider returned no short url")

type Config struct {
	Endpoint  string
	APIKey    string
	Workspace string
	Domain    string
	Timeout   time.Duration
}

type Client struct {
	endpoint   string
	apiKey     string
	workspace  string
	domain     string
	timeout    time.Duration
	httpClient *http.Client
}

func New(cfg Config) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		workspace:  cfg.Workspace,
		domain:     cfg.Domain,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}

	if c.endpoint == "" {
		c.endpoint = defaultEndpoint
	}
	if c.domain == "" {
		c.domain = defaultDomain
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}

	return c
}

type linkRequest struct {
	Destination string `json:"destination"`
	Domain      struct {
		FullName string `json:"fullName"`
	} `json:"domain"`
}

type linkResponse struct {
	ShortURL string `json:"shortUrl"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.code)
}

// Shorten submits the URL to the provider and returns the issued short
// URL. The call is bounded by the configured timeout and retried once on
// a transport error or 5xx response.
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	const op = "shortener.Client.Shorten"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := linkRequest{Destination: longURL}
	reqBody.Domain.FullName = c.domain

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	shortURL, err := c.do(ctx, body)
	if err != nil && retryable(err) {
		shortURL, err = c.do(ctx, body)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if shortURL == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoShortURL)
	}

	return shortURL, nil
}

func retryable(err error) bool {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.code >= http.StatusInternalServerError
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("workspace", c.workspace)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &statusError{code: resp.StatusCode}
	}

	var link linkResponse
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return link.ShortURL, nil
}
