package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func quoteBody(fields string) string {
	return fmt.Sprintf(`{"quoteResponse":{"result":[{"symbol":"TEST",%s}],"error":null}}`, fields)
}

func TestClient_LastPrice_FieldPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{
			name: "regular market price wins",
			body: quoteBody(`"regularMarketPrice":10.5,"postMarketPrice":11.0,"bid":9.9`),
			want: 10.5,
		},
		{
			name: "falls back to post market price",
			body: quoteBody(`"postMarketPrice":11.0,"bid":9.9`),
			want: 11.0,
		},
		{
			name: "falls back to bid",
			body: quoteBody(`"bid":9.9`),
			want: 9.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("symbols"); got != "TEST" {
					t.Errorf("symbols query = %q, want %q", got, "TEST")
				}
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			c := NewClient(server.URL)
			got, err := c.LastPrice(context.Background(), "TEST")
			if err != nil {
				t.Fatalf("LastPrice() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LastPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_LastPrice_NoQuote(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty result", body: `{"quoteResponse":{"result":[],"error":null}}`},
		{name: "no price fields", body: quoteBody(`"currency":"USD"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			c := NewClient(server.URL)
			_, err := c.LastPrice(context.Background(), "TEST")
			if !errors.Is(err, ErrNoQuote) {
				t.Errorf("LastPrice() error = %v, want ErrNoQuote", err)
			}
		})
	}
}

func TestClient_LastPrice_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.LastPrice(context.Background(), "TEST")

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("LastPrice() error = %T, want *ProviderError", err)
	}
	if !provErr.IsRateLimit() {
		t.Errorf("IsRateLimit() = false, want true for status %d", provErr.StatusCode)
	}
}

func TestClient_LastPrice_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.LastPrice(context.Background(), "TEST")

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("LastPrice() error = %T, want *ProviderError", err)
	}
	if provErr.IsRateLimit() {
		t.Error("IsRateLimit() = true for a 500")
	}
}

func TestClient_LastPrice_EmptySymbol(t *testing.T) {
	c := NewClient("http://unused")
	if _, err := c.LastPrice(context.Background(), ""); err == nil {
		t.Error("LastPrice(\"\") returned nil error")
	}
}
