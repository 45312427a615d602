package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
	"github.com/veiligstallen/reports/internal/pkg/logger"
)

// cacheSpec describes one cache family: its table, the column its windows
// are expressed in, its parent index and the SQL that recomputes it from
// raw data. Update statements bind the half-open window as $1/$2 and, when
// the selection is narrowed, the facility list as $3.
type cacheSpec struct {
	table       string
	dateColumn  string
	parentIndex string
	createDDL   string
	updateSQL   func(filterBikeparks bool) string
}

func specFor(family domain.CacheFamily) (cacheSpec, error) {
	switch family {
	case domain.CacheTransacties:
		return transactiesCacheSpec, nil
	case domain.CacheBezetting:
		return bezettingCacheSpec, nil
	case domain.CacheStallingsduur:
		return stallingsduurCacheSpec, nil
	default:
		return cacheSpec{}, fmt.Errorf("%w: %q", constants.ErrUnknownCacheFamily, family)
	}
}

type cacheStatusRow struct {
	RowCount  int64      `db:"row_count"`
	FirstDate *time.Time `db:"first_date"`
	LastDate  *time.Time `db:"last_date"`
}

func (s *store) CacheStatus(ctx context.Context, family domain.CacheFamily) (*domain.CacheStatus, error) {
	spec, err := specFor(family)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var exists bool
	err = s.pool.Get(ctx, &exists, `select to_regclass($1) is not null`, spec.table)
	if err != nil {
		return nil, fmt.Errorf("cache status %s: %w", spec.table, wrapErr(err))
	}

	status := &domain.CacheStatus{TableExists: exists}
	if !exists {
		status.Describe(family)
		return status, nil
	}

	query := builder().
		Select(
			"count(*) as row_count",
			fmt.Sprintf("min(%s) as first_date", spec.dateColumn),
			fmt.Sprintf("max(%s) as last_date", spec.dateColumn),
		).
		From(spec.table)

	var row cacheStatusRow
	if err := s.pool.Getx(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("cache status %s: %w", spec.table, wrapErr(err))
	}

	status.RowCount = row.RowCount
	status.FirstDate = row.FirstDate
	status.LastDate = row.LastDate
	status.Describe(family)
	return status, nil
}

// CreateCacheTable is idempotent; re-creating an available table is a no-op.
func (s *store) CreateCacheTable(ctx context.Context, family domain.CacheFamily) error {
	spec, err := specFor(family)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, spec.createDDL); err != nil {
		logger.Errorf(ctx, "createtable %s: %s", spec.table, err.Error())
		return fmt.Errorf("createtable %s: %w", spec.table, err)
	}
	return nil
}

func (s *store) DropCacheTable(ctx context.Context, family domain.CacheFamily) error {
	spec, err := specFor(family)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`drop table if exists %s`, spec.table)); err != nil {
		logger.Errorf(ctx, "droptable %s: %s", spec.table, err.Error())
		return fmt.Errorf("droptable %s: %w", spec.table, err)
	}
	return nil
}

// ClearCache deletes rows inside [start, end) for the selected facilities
// without touching table existence.
func (s *store) ClearCache(ctx context.Context, family domain.CacheFamily, start, end time.Time, bikeparkIDs []string) error {
	spec, err := specFor(family)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := builder().Delete(spec.table).
		Where(sq.GtOrEq{spec.dateColumn: start}).
		Where(sq.Lt{spec.dateColumn: end})

	if len(bikeparkIDs) > 0 {
		query = query.Where(sq.Expr("bikepark_id = any(?)", bikeparkIDs))
	}

	if _, err := s.pool.Execx(ctx, query); err != nil {
		logger.Errorf(ctx, "clear %s: %s", spec.table, err.Error())
		return fmt.Errorf("clear %s: %w", spec.table, err)
	}
	return nil
}

// UpdateCache recomputes cache rows for [start, end) from raw data with a
// single insert-select. Callers clear the same window first; together that
// gives delete-then-insert semantics, so re-running is idempotent.
func (s *store) UpdateCache(ctx context.Context, family domain.CacheFamily, start, end time.Time, bikeparkIDs []string) error {
	spec, err := specFor(family)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := len(bikeparkIDs) > 0
	args := []interface{}{start, end}
	if filter {
		args = append(args, bikeparkIDs)
	}

	if _, err := s.pool.Exec(ctx, spec.updateSQL(filter), args...); err != nil {
		logger.Errorf(ctx, "update %s [%s, %s): %s",
			spec.table, start.Format(time.DateOnly), end.Format(time.DateOnly), err.Error())
		return fmt.Errorf("update %s: %w", spec.table, err)
	}
	return nil
}

// Parent indices support range scans by facility. They are managed apart
// from row content so a bulk rebuild can drop them first and recreate them
// afterwards for write throughput.
func (s *store) CreateParentIndices(ctx context.Context, family domain.CacheFamily) error {
	spec, err := specFor(family)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ddl := fmt.Sprintf(`create index if not exists %s on %s (bikepark_id, %s)`,
		spec.parentIndex, spec.table, spec.dateColumn)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		logger.Errorf(ctx, "createparentindices %s: %s", spec.table, err.Error())
		return fmt.Errorf("createparentindices %s: %w", spec.table, err)
	}
	return nil
}

func (s *store) DropParentIndices(ctx context.Context, family domain.CacheFamily) error {
	spec, err := specFor(family)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`drop index if exists %s`, spec.parentIndex)); err != nil {
		logger.Errorf(ctx, "dropparentindices %s: %s", spec.table, err.Error())
		return fmt.Errorf("dropparentindices %s: %w", spec.table, err)
	}
	return nil
}
