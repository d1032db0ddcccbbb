package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Beginner is the transactional capability the writer needs from storage.
// *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Writer applies resolved batch prices to the public_assets table.
type Writer struct {
	db      Beginner
	timeout time.Duration
	logger  *slog.Logger
}

// NewWriter creates a Writer. timeout bounds the statement time of each bulk
// update so a lock wait can never stall the run indefinitely.
func NewWriter(db Beginner, timeout time.Duration, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		db:      db,
		timeout: timeout,
		logger:  logger,
	}
}

// UpdatePrices writes a batch's prices and updated_date in one set-based
// statement: the rounded rows are copied into a temp staging table and joined
// to public_assets by code. market_value and updated_date always change
// together, never independently. Returns the number of codes written.
//
// An empty map is a no-op and opens no transaction.
func (w *Writer) UpdatePrices(ctx context.Context, prices map[string]float64) (int, error) {
	if len(prices) == 0 {
		return 0, nil
	}

	rows, err := stagingRows(prices)
	if err != nil {
		return 0, err
	}

	start := time.Now()

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// statement_timeout takes no bind parameters; the value is a config
	// integer, never caller data.
	_, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", w.timeout.Milliseconds()))
	if err != nil {
		return 0, fmt.Errorf("set statement timeout: %w", err)
	}

	_, err = tx.Exec(ctx, `
		CREATE TEMP TABLE _prices (
			code  text PRIMARY KEY,
			price numeric(19,8)
		) ON COMMIT DROP
	`)
	if err != nil {
		return 0, fmt.Errorf("create staging table: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"_prices"},
		[]string{"code", "price"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy staging rows: %w", err)
	}

	ct, err := tx.Exec(ctx, `
		UPDATE public_assets pa
		SET market_value = p.price,
		    updated_date = timezone('utc', now())
		FROM _prices p
		WHERE pa.code = p.code
	`)
	if err != nil {
		return 0, fmt.Errorf("apply price update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	w.logger.Debug("bulk price update committed",
		"codes", len(prices),
		"rows_affected", ct.RowsAffected(),
		"duration", time.Since(start),
	)

	return len(prices), nil
}

// stagingRows builds CopyFrom rows with prices rounded exactly once.
func stagingRows(prices map[string]float64) ([][]any, error) {
	rows := make([][]any, 0, len(prices))
	for code, v := range prices {
		n, err := numericPrice(v)
		if err != nil {
			return nil, fmt.Errorf("price for %s: %w", code, err)
		}
		rows = append(rows, []any{code, n})
	}
	return rows, nil
}

func numericPrice(v float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(Round8(v).StringFixed(fracDigits)); err != nil {
		return n, err
	}
	return n, nil
}
