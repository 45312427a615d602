package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
	"github.com/veiligstallen/reports/internal/pkg/logger"
	"github.com/veiligstallen/reports/internal/pkg/store"
)

var families = []domain.CacheFamily{
	domain.CacheTransacties,
	domain.CacheBezetting,
	domain.CacheStallingsduur,
}

// Service owns cache lifecycle orchestration. Mutating actions on one
// family are serialized through a per-family mutex; two admins racing an
// update would otherwise produce lost writes at the database level.
type Service struct {
	store       store.Store
	horizonDays int

	mu map[domain.CacheFamily]*sync.Mutex
}

func NewCacheService(st store.Store, horizonDays int) *Service {
	mu := make(map[domain.CacheFamily]*sync.Mutex, len(families))
	for _, f := range families {
		mu[f] = &sync.Mutex{}
	}
	return &Service{store: st, horizonDays: horizonDays, mu: mu}
}

// Manage dispatches one lifecycle action and returns the post-action
// status of the table.
func (s *Service) Manage(ctx context.Context, family domain.CacheFamily, params domain.CacheParams) (*domain.CacheStatus, error) {
	lock, ok := s.mu[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownCacheFamily, family)
	}

	if params.Action != domain.CacheActionStatus {
		lock.Lock()
		defer lock.Unlock()
	}

	var err error
	switch params.Action {
	case domain.CacheActionStatus:
		// read-only, falls through to the status call below

	case domain.CacheActionCreateTable:
		err = s.store.CreateCacheTable(ctx, family)

	case domain.CacheActionDropTable:
		err = s.store.DropCacheTable(ctx, family)

	case domain.CacheActionCreateParentIndices:
		err = s.store.CreateParentIndices(ctx, family)

	case domain.CacheActionDropParentIndices:
		err = s.store.DropParentIndices(ctx, family)

	case domain.CacheActionClear:
		var (
			start, end  time.Time
			bikeparkIDs []string
		)
		start, end, err = s.resolveWindow(params)
		if err == nil {
			bikeparkIDs, err = resolveBikeparks(params)
		}
		if err == nil {
			err = s.store.ClearCache(ctx, family, start, end, bikeparkIDs)
		}

	case domain.CacheActionUpdate, domain.CacheActionRebuild:
		// rebuild is clear-then-update over the requested range; the update
		// driver clears every window it writes, so the two actions share
		// one path
		err = s.runUpdate(ctx, family, params)

	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownCacheAction, params.Action)
	}
	if err != nil {
		return nil, err
	}

	return s.store.CacheStatus(ctx, family)
}

// StatusAll reads the status of every cache family concurrently.
func (s *Service) StatusAll(ctx context.Context) (map[domain.CacheFamily]*domain.CacheStatus, error) {
	statuses := make([]*domain.CacheStatus, len(families))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, family := range families {
		i, family := i, family
		eg.Go(func() error {
			status, err := s.store.CacheStatus(egCtx, family)
			if err != nil {
				return fmt.Errorf("status %s: %w", family, err)
			}
			statuses[i] = status
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := make(map[domain.CacheFamily]*domain.CacheStatus, len(families))
	for i, family := range families {
		res[family] = statuses[i]
	}
	return res, nil
}

// runUpdate is the update driver. It first clears the full historical
// horizon so no orphaned rows from earlier, differently-bounded runs
// survive, then recomputes the requested window either in one call (full)
// or day by day (incremental). A failed day aborts with the day in the
// error; finished days stay valid, so a re-run over the remaining range
// resumes the work.
func (s *Service) runUpdate(ctx context.Context, family domain.CacheFamily, params domain.CacheParams) error {
	start, end, err := s.resolveWindow(params)
	if err != nil {
		return err
	}
	bikeparkIDs, err := resolveBikeparks(params)
	if err != nil {
		return err
	}

	horizonStart, horizonEnd := s.horizon()
	if err := s.store.ClearCache(ctx, family, horizonStart, horizonEnd, bikeparkIDs); err != nil {
		return fmt.Errorf("clear horizon: %w", err)
	}

	if !params.Incremental {
		if err := s.store.ClearCache(ctx, family, start, end, bikeparkIDs); err != nil {
			return fmt.Errorf("clear window: %w", err)
		}
		if err := s.store.UpdateCache(ctx, family, start, end, bikeparkIDs); err != nil {
			return err
		}
		logger.Infof(ctx, "cache %s updated for [%s, %s)",
			family, start.Format(time.DateOnly), end.Format(time.DateOnly))
		return nil
	}

	for day := startOfDay(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		day := day
		next := day.AddDate(0, 0, 1)

		err := backoff.Retry(
			func() error {
				if err := s.store.ClearCache(ctx, family, day, next, bikeparkIDs); err != nil {
					return err
				}
				return s.store.UpdateCache(ctx, family, day, next, bikeparkIDs)
			},
			backoff.WithContext(
				backoff.WithMaxRetries(backoff.NewConstantBackOff(250*time.Millisecond), 3),
				ctx,
			),
		)
		if err != nil {
			return fmt.Errorf("update %s day %s: %w", family, day.Format(time.DateOnly), err)
		}

		logger.Debugf(ctx, "cache %s updated for day %s", family, day.Format(time.DateOnly))
	}

	return nil
}

func (s *Service) resolveWindow(params domain.CacheParams) (time.Time, time.Time, error) {
	if params.AllDates {
		start, end := s.horizon()
		return start, end, nil
	}
	if params.StartDate.IsZero() || params.EndDate.IsZero() || !params.StartDate.Before(params.EndDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must precede endDate", constants.ErrInvalidParams)
	}
	return params.StartDate, params.EndDate, nil
}

// horizon is the generously wide window used for orphan clears and for
// allDates expansion.
func (s *Service) horizon() (time.Time, time.Time) {
	now := time.Now().UTC()
	return startOfDay(now).AddDate(0, 0, -s.horizonDays), startOfDay(now).AddDate(0, 0, 1)
}

// resolveBikeparks maps the selection overrides onto the store's filter
// convention: nil means every facility. An empty selection without the
// allBikeparks override is a caller mistake, not "everything".
func resolveBikeparks(params domain.CacheParams) ([]string, error) {
	if params.AllBikeparks {
		return nil, nil
	}
	if len(params.BikeparkIDs) == 0 {
		return nil, fmt.Errorf("%w: empty facility selection", constants.ErrInvalidParams)
	}
	return params.BikeparkIDs, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
