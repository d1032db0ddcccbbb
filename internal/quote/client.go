package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrNoQuote is returned when the provider answered but carried no usable
// price for the symbol.
var ErrNoQuote = errors.New("no quote data for symbol")

// ProviderError represents an HTTP-level error from the quote provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("quote provider error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimit reports whether the provider signaled throttling. Rate-limit
// errors get a dedicated, much longer backoff in the Fetcher.
func (e *ProviderError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Client fetches quotes from the provider's lightweight quote endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a quote provider client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// LastPrice fetches the last-trade price for one symbol. The call is pure
// request/response with no side effects, so callers may retry it freely.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	if symbol == "" {
		return 0, errors.New("symbol is required")
	}

	query := url.Values{}
	query.Set("symbols", symbol)
	fullURL := c.baseURL + "/v7/finance/quote?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Debug("quote request rejected",
			"symbol", symbol,
			"status", resp.StatusCode,
		)
		return 0, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	var decoded quoteResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return 0, fmt.Errorf("unmarshal response: %w", err)
	}

	if e := decoded.QuoteResponse.Error; e != nil {
		return 0, fmt.Errorf("provider error %s: %s", e.Code, e.Description)
	}
	if len(decoded.QuoteResponse.Result) == 0 {
		return 0, ErrNoQuote
	}

	price, ok := decoded.QuoteResponse.Result[0].lastPrice()
	if !ok {
		return 0, ErrNoQuote
	}

	return price, nil
}
