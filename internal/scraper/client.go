// Package scraper provides the HTTP client shared by every site adapter and
// the capability contract adapters implement. The client retries transport
// failures with exponential backoff; it never judges response status codes,
// which belong to each adapter's deserialize step.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/corpix/uarand"
)

// Client is an HTTP client for web scraping with bounded retry.
// It is shared read-only across all pipeline tasks; the underlying transport
// handles connection pooling and provides the pipeline's backpressure.
type Client struct {
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new scraper client.
// timeout: HTTP request timeout (e.g. 60s)
// maxRetries: max transport retry attempts with exponential backoff
func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		maxRetries: maxRetries,
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, reqURL string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, reqURL, "", "")
}

// PostForm performs a POST with an application/x-www-form-urlencoded body.
func (c *Client) PostForm(ctx context.Context, postURL, formData string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, postURL, formData, "application/x-www-form-urlencoded")
}

// do performs an HTTP request, retrying transport errors with backoff.
// Responses are returned whatever their status code; the caller owns the
// body and the status judgement.
func (c *Client) do(ctx context.Context, method, reqURL, body, contentType string) (*http.Response, error) {
	var resp *http.Response

	err := RetryWithBackoff(ctx, c.maxRetries, 1*time.Second, func() error {
		var bodyReader io.Reader = http.NoBody
		if body != "" {
			bodyReader = strings.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
		if err != nil {
			return &permanentError{fmt.Errorf("create request: %w", err)}
		}

		req.Header.Set("User-Agent", c.randomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request %s failed: %w", reqURL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// ReadBody drains and closes a response body.
func ReadBody(resp *http.Response) (string, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	return string(body), nil
}

// randomUserAgent returns a random user agent string.
func (c *Client) randomUserAgent() string {
	return uarand.GetRandom()
}
