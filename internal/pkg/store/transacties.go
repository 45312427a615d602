package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// TransactionTotals is the overall count/revenue pair for one window.
type TransactionTotals struct {
	Count   int64           `db:"count_transacties"`
	Revenue decimal.Decimal `db:"sum_price"`
}

// SelectTransactionTotals aggregates the raw transaction table for one
// window and facility selection. Single statement, so it binds natively.
func (s *store) SelectTransactionTotals(ctx context.Context, start, end time.Time, bikeparkIDs []string) (*TransactionTotals, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := builder().
		Select(
			"count(*) as count_transacties",
			"coalesce(sum(price), 0) as sum_price",
		).
		From(tableTransacties).
		Where(sq.GtOrEq{"checkin": start}).
		Where(sq.Lt{"checkin": end})

	if len(bikeparkIDs) > 0 {
		query = query.Where(sq.Expr("bikepark_id = any(?)", bikeparkIDs))
	}

	var totals TransactionTotals
	if err := s.pool.Getx(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("transaction totals: %w", wrapErr(err))
	}

	return &totals, nil
}
