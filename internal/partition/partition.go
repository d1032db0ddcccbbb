// Package partition implements the Code Partitioner component.
//
// It loads the eligible asset codes from storage in deterministic order,
// optionally restricts the list to this instance's shard via a stable SHA-1
// hash, and slices the result into fixed-size batches for pacing.
package partition

import (
	"context"
	"crypto/sha1"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
)

// Querier is the read capability the partitioner needs from storage.
// *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Source loads eligible asset codes from the public_assets table.
type Source struct {
	db Querier
}

// NewSource creates a Source over the given storage connection.
func NewSource(db Querier) *Source {
	return &Source{db: db}
}

// LoadCodes returns all provider-eligible asset codes in ascending order.
// The deterministic order keeps batch boundaries stable across runs for the
// same eligible set.
func (s *Source) LoadCodes(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT code FROM public_assets
		WHERE yfinance_compatible = TRUE
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("query eligible codes: %w", err)
	}

	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect codes: %w", err)
	}
	return codes, nil
}

// ShardOf maps a code to its shard index in [0, shards). The SHA-1 based
// mapping is stable across processes and runs, so independent instances
// partition the code set disjointly without coordination.
func ShardOf(code string, shards int) int {
	if shards <= 1 {
		return 0
	}
	sum := sha1.Sum([]byte(code))
	h := new(big.Int).SetBytes(sum[:])
	return int(h.Mod(h, big.NewInt(int64(shards))).Int64())
}

// FilterShard keeps only the codes belonging to shard thisShard.
func FilterShard(codes []string, shards, thisShard int) []string {
	if shards <= 1 {
		return codes
	}
	out := make([]string, 0, len(codes)/shards+1)
	for _, code := range codes {
		if ShardOf(code, shards) == thisShard {
			out = append(out, code)
		}
	}
	return out
}

// Batches splits codes into contiguous chunks of at most size elements.
// The final chunk may be shorter. The chunks share backing storage with
// codes; callers must not mutate them.
func Batches(codes []string, size int) [][]string {
	if len(codes) == 0 {
		return nil
	}
	if size < 1 {
		size = len(codes)
	}

	out := make([][]string, 0, (len(codes)+size-1)/size)
	for start := 0; start < len(codes); start += size {
		end := start + size
		if end > len(codes) {
			end = len(codes)
		}
		out = append(out, codes[start:end])
	}
	return out
}
