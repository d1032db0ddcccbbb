package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mapFetcher resolves symbols from a fixed table; missing symbols are
// unavailable.
type mapFetcher struct {
	prices map[string]float64
}

func (m *mapFetcher) Fetch(ctx context.Context, symbol string) (float64, bool) {
	p, ok := m.prices[symbol]
	return p, ok
}

func TestCoordinator_EmptyInput(t *testing.T) {
	var called atomic.Bool
	f := fetchFunc(func(ctx context.Context, symbol string) (float64, bool) {
		called.Store(true)
		return 1, true
	})

	c := NewCoordinator(f, 4, nil)
	out := c.FetchBatch(context.Background(), nil)

	if len(out) != 0 {
		t.Errorf("FetchBatch(nil) returned %d entries", len(out))
	}
	if called.Load() {
		t.Error("fetcher invoked for empty input")
	}
}

// fetchFunc adapts a function to SymbolFetcher.
type fetchFunc func(ctx context.Context, symbol string) (float64, bool)

func (f fetchFunc) Fetch(ctx context.Context, symbol string) (float64, bool) {
	return f(ctx, symbol)
}

func TestCoordinator_PartialFailure(t *testing.T) {
	f := &mapFetcher{prices: map[string]float64{
		"AAA": 1.5,
		"CCC": 3.25,
		"EEE": 5.0,
	}}

	c := NewCoordinator(f, 4, nil)
	out := c.FetchBatch(context.Background(), []string{"AAA", "BBB", "CCC", "DDD", "EEE"})

	want := map[string]float64{"AAA": 1.5, "CCC": 3.25, "EEE": 5.0}
	if len(out) != len(want) {
		t.Fatalf("FetchBatch() returned %d entries, want %d", len(out), len(want))
	}
	for k, v := range want {
		if out[k] != v {
			t.Errorf("out[%q] = %v, want %v", k, out[k], v)
		}
	}
}

func TestCoordinator_AllSymbolsResolved(t *testing.T) {
	symbols := make([]string, 50)
	prices := make(map[string]float64, 50)
	for i := range symbols {
		s := fmt.Sprintf("SYM%02d", i)
		symbols[i] = s
		prices[s] = float64(i) + 0.5
	}

	c := NewCoordinator(&mapFetcher{prices: prices}, 8, nil)
	out := c.FetchBatch(context.Background(), symbols)

	if len(out) != len(symbols) {
		t.Fatalf("FetchBatch() returned %d entries, want %d", len(out), len(symbols))
	}
	for s, p := range prices {
		if out[s] != p {
			t.Errorf("out[%q] = %v, want %v", s, out[s], p)
		}
	}
}

func TestCoordinator_BoundedConcurrency(t *testing.T) {
	const workers = 3

	var (
		mu      sync.Mutex
		current int
		peak    int
	)

	f := fetchFunc(func(ctx context.Context, symbol string) (float64, bool) {
		mu.Lock()
		current++
		if current > peak {
			peak = current
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		current--
		mu.Unlock()
		return 1.0, true
	})

	symbols := make([]string, 30)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("SYM%02d", i)
	}

	c := NewCoordinator(f, workers, nil)
	out := c.FetchBatch(context.Background(), symbols)

	if len(out) != len(symbols) {
		t.Fatalf("FetchBatch() returned %d entries, want %d", len(out), len(symbols))
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > workers {
		t.Errorf("peak concurrency = %d, exceeds worker bound %d", peak, workers)
	}
}
