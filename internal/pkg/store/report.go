package store

import (
	"context"
	"fmt"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/logger"
)

// SelectCategoryRows runs a finished (already interpolated) report
// statement. Every report builder emits the same three-column shape.
func (s *store) SelectCategoryRows(ctx context.Context, sql string) ([]*domain.CategoryRow, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []*domain.CategoryRow
	if err := s.pool.Select(ctx, &rows, sql); err != nil {
		logger.Errorf(ctx, "report query: %s", err.Error())
		return nil, fmt.Errorf("report query: %w", wrapErr(err))
	}

	return rows, nil
}
