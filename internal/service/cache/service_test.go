package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/store"
)

type call struct {
	op     string
	family domain.CacheFamily
	start  time.Time
	end    time.Time
	ids    []string
}

// fakeStore records lifecycle calls in order.
type fakeStore struct {
	store.Store

	calls []call
	// op name -> error to inject
	fail map[string]error
}

func (f *fakeStore) record(op string, family domain.CacheFamily, start, end time.Time, ids []string) error {
	f.calls = append(f.calls, call{op: op, family: family, start: start, end: end, ids: ids})
	if err, ok := f.fail[op]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) CacheStatus(_ context.Context, family domain.CacheFamily) (*domain.CacheStatus, error) {
	if err := f.record("status", family, time.Time{}, time.Time{}, nil); err != nil {
		return nil, err
	}
	status := &domain.CacheStatus{TableExists: true, RowCount: 7}
	status.Describe(family)
	return status, nil
}

func (f *fakeStore) CreateCacheTable(_ context.Context, family domain.CacheFamily) error {
	return f.record("createtable", family, time.Time{}, time.Time{}, nil)
}

func (f *fakeStore) DropCacheTable(_ context.Context, family domain.CacheFamily) error {
	return f.record("droptable", family, time.Time{}, time.Time{}, nil)
}

func (f *fakeStore) ClearCache(_ context.Context, family domain.CacheFamily, start, end time.Time, ids []string) error {
	return f.record("clear", family, start, end, ids)
}

func (f *fakeStore) UpdateCache(_ context.Context, family domain.CacheFamily, start, end time.Time, ids []string) error {
	return f.record("update", family, start, end, ids)
}

func (f *fakeStore) CreateParentIndices(_ context.Context, family domain.CacheFamily) error {
	return f.record("createparentindices", family, time.Time{}, time.Time{}, nil)
}

func (f *fakeStore) DropParentIndices(_ context.Context, family domain.CacheFamily) error {
	return f.record("dropparentindices", family, time.Time{}, time.Time{}, nil)
}

func (f *fakeStore) ops() []string {
	ops := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		ops = append(ops, c.op)
	}
	return ops
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func updateParams(action domain.CacheAction) domain.CacheParams {
	return domain.CacheParams{
		Action:      action,
		StartDate:   day(2024, 1, 1),
		EndDate:     day(2024, 1, 4),
		BikeparkIDs: []string{"A", "B"},
	}
}

func TestManageStatus(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	status, err := svc.Manage(context.Background(), domain.CacheTransacties,
		domain.CacheParams{Action: domain.CacheActionStatus})
	require.NoError(t, err)
	assert.True(t, status.TableExists)
	assert.Equal(t, []string{"status"}, fake.ops())
}

func TestManageFullUpdateClearsBeforeUpdating(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	_, err := svc.Manage(context.Background(), domain.CacheBezetting, updateParams(domain.CacheActionUpdate))
	require.NoError(t, err)

	// horizon clear, window clear, one update, then the post-action status
	require.Equal(t, []string{"clear", "clear", "update", "status"}, fake.ops())

	horizon := fake.calls[0]
	window := fake.calls[1]
	update := fake.calls[2]

	assert.True(t, horizon.start.Before(window.start), "orphan clear must span far beyond the request")
	assert.Equal(t, day(2024, 1, 1), window.start)
	assert.Equal(t, day(2024, 1, 4), window.end)
	assert.Equal(t, window.start, update.start)
	assert.Equal(t, window.end, update.end)
	assert.Equal(t, []string{"A", "B"}, update.ids)
}

func TestManageIncrementalUpdateGoesDayByDay(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	params := updateParams(domain.CacheActionUpdate)
	params.Incremental = true

	_, err := svc.Manage(context.Background(), domain.CacheTransacties, params)
	require.NoError(t, err)

	// horizon clear, then (clear, update) per calendar day, then status
	require.Equal(t, []string{
		"clear",
		"clear", "update",
		"clear", "update",
		"clear", "update",
		"status",
	}, fake.ops())

	for i, want := range []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)} {
		update := fake.calls[2+2*i]
		assert.Equal(t, "update", update.op)
		assert.Equal(t, want, update.start)
		assert.Equal(t, want.AddDate(0, 0, 1), update.end)
	}
}

func TestManageIncrementalFailureNamesTheDay(t *testing.T) {
	fake := &fakeStore{fail: map[string]error{"update": errors.New("deadlock")}}
	svc := NewCacheService(fake, 365)

	params := updateParams(domain.CacheActionUpdate)
	params.Incremental = true

	_, err := svc.Manage(context.Background(), domain.CacheTransacties, params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-01-01")
}

func TestManageRebuildSharesTheUpdatePath(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	_, err := svc.Manage(context.Background(), domain.CacheStallingsduur, updateParams(domain.CacheActionRebuild))
	require.NoError(t, err)
	assert.Equal(t, []string{"clear", "clear", "update", "status"}, fake.ops())
}

func TestManageAllBikeparksMeansNoFilter(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	params := updateParams(domain.CacheActionUpdate)
	params.BikeparkIDs = nil
	params.AllBikeparks = true

	_, err := svc.Manage(context.Background(), domain.CacheTransacties, params)
	require.NoError(t, err)
	assert.Nil(t, fake.calls[2].ids)
}

func TestManageEmptySelectionIsRejected(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	params := updateParams(domain.CacheActionUpdate)
	params.BikeparkIDs = nil

	_, err := svc.Manage(context.Background(), domain.CacheTransacties, params)
	require.Error(t, err)
}

func TestManageAllDatesExpandsToHorizon(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 30)

	params := domain.CacheParams{
		Action:       domain.CacheActionClear,
		AllDates:     true,
		AllBikeparks: true,
	}

	_, err := svc.Manage(context.Background(), domain.CacheBezetting, params)
	require.NoError(t, err)

	clear := fake.calls[0]
	assert.InDelta(t, 31, clear.end.Sub(clear.start).Hours()/24, 1)
}

func TestManageTableActions(t *testing.T) {
	for _, tc := range []struct {
		action domain.CacheAction
		op     string
	}{
		{domain.CacheActionCreateTable, "createtable"},
		{domain.CacheActionDropTable, "droptable"},
		{domain.CacheActionCreateParentIndices, "createparentindices"},
		{domain.CacheActionDropParentIndices, "dropparentindices"},
	} {
		t.Run(string(tc.action), func(t *testing.T) {
			fake := &fakeStore{}
			svc := NewCacheService(fake, 365)

			_, err := svc.Manage(context.Background(), domain.CacheTransacties,
				domain.CacheParams{Action: tc.action})
			require.NoError(t, err)
			assert.Equal(t, []string{tc.op, "status"}, fake.ops())
		})
	}
}

func TestManageUnknownActionAndFamily(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	_, err := svc.Manage(context.Background(), domain.CacheTransacties,
		domain.CacheParams{Action: "defragmenteer"})
	require.Error(t, err)

	_, err = svc.Manage(context.Background(), domain.CacheFamily("spookstalling"),
		domain.CacheParams{Action: domain.CacheActionStatus})
	require.Error(t, err)
}

func TestStatusAll(t *testing.T) {
	fake := &fakeStore{}
	svc := NewCacheService(fake, 365)

	statuses, err := svc.StatusAll(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	for _, family := range families {
		require.Contains(t, statuses, family)
		assert.Equal(t, int64(7), statuses[family].RowCount)
		assert.Contains(t, statuses[family].Summary, fmt.Sprintf("%s cache", family))
	}
}
