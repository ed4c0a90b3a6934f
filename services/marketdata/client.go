package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultRequestTimeout = 30 * time.Second
	bodyExcerptLimit      = 200
)

// TransportError reports a single failed provider request: network failure,
// non-2xx status, or an unparsable body. The date-fallback search treats it as
// "no data for this day" and moves on; only the last one survives to callers.
type TransportError struct {
	StatusCode  int
	BodyExcerpt string
	Cause       error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.BodyExcerpt)
	}
	return fmt.Sprintf("provider request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Client issues single GET requests against a provider endpoint and decodes
// the JSON body. Retry policy lives entirely in the search engine, not here.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a provider HTTP client with the default request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
}

// NewClientWithHTTP wraps an existing http.Client, used by tests.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// Get performs one GET against baseURL+path with the given query parameters
// and returns the decoded JSON document. Any failure mode comes back as a
// *TransportError.
func (c *Client) Get(ctx context.Context, baseURL, path string, params url.Values) (map[string]interface{}, error) {
	u, err := url.Parse(baseURL + path)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("invalid endpoint URL: %w", err)}
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			StatusCode:  resp.StatusCode,
			BodyExcerpt: excerpt(body),
		}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("failed to parse response: %w", err)}
	}

	return doc, nil
}

func excerpt(body []byte) string {
	if len(body) > bodyExcerptLimit {
		return string(body[:bodyExcerptLimit])
	}
	return string(body)
}
