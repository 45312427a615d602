package store

import (
	"context"
	"time"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store is the engine's database surface: lifecycle operations per cache
// family plus execution of finished report statements. A nil/empty
// bikeparkIDs slice means "every facility".
type Store interface {
	CacheStatus(ctx context.Context, family domain.CacheFamily) (*domain.CacheStatus, error)
	CreateCacheTable(ctx context.Context, family domain.CacheFamily) error
	DropCacheTable(ctx context.Context, family domain.CacheFamily) error
	ClearCache(ctx context.Context, family domain.CacheFamily, start, end time.Time, bikeparkIDs []string) error
	UpdateCache(ctx context.Context, family domain.CacheFamily, start, end time.Time, bikeparkIDs []string) error
	CreateParentIndices(ctx context.Context, family domain.CacheFamily) error
	DropParentIndices(ctx context.Context, family domain.CacheFamily) error

	SelectCategoryRows(ctx context.Context, sql string) ([]*domain.CategoryRow, error)
	SelectTransactionTotals(ctx context.Context, start, end time.Time, bikeparkIDs []string) (*TransactionTotals, error)
}

type store struct {
	pool Pool
	// bounds every SQL call; zero means no limit
	sqlTimeout time.Duration
}

func NewStore(pool Pool, sqlTimeout time.Duration) Store {
	return &store{pool: pool, sqlTimeout: sqlTimeout}
}

func (s *store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.sqlTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.sqlTimeout)
}
