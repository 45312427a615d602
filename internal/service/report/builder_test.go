package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veiligstallen/reports/internal/domain"
)

func occupancyParams(ids ...string) domain.ReportParams {
	return domain.ReportParams{
		ReportType:  domain.ReportBezettingAbsoluut,
		Grouping:    domain.PerUur,
		BikeparkIDs: ids,
		StartDT:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDT:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildSQLEmptySelectionSentinel(t *testing.T) {
	sql, err := buildSQL(occupancyParams(), time.Time{}, time.Time{}, false)
	require.NoError(t, err)
	assert.Equal(t, emptyResultSQL, sql)
	assert.Contains(t, sql, "where 1=0")
}

func TestBuildSQLAbsoluteOccupancyShape(t *testing.T) {
	params := occupancyParams("A", "B")
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)
	sql, err := buildSQL(params, start, end, false)
	require.NoError(t, err)

	// 2 facilities x 2 series = 4 blocks, 3 UNION ALL joins
	assert.Equal(t, 3, strings.Count(sql, "union all"))
	assert.Equal(t, 4, strings.Count(sql, "as category"))

	// 4 interpolated date literals per block: outer BETWEEN plus the
	// min-interval subquery BETWEEN
	assert.Equal(t, 8, strings.Count(sql, "'2024-01-01 00:00:00'"))
	assert.Equal(t, 8, strings.Count(sql, "'2024-01-02 00:00:00'"))

	// deterministic series labels
	assert.Contains(t, sql, "'A_capacity' as category")
	assert.Contains(t, sql, "'A_occupation' as category")
	assert.Contains(t, sql, "'B_capacity' as category")
	assert.Contains(t, sql, "'B_occupation' as category")

	assert.True(t, strings.HasSuffix(sql, "order by bucket asc"))
	assert.NotContains(t, sql, "?", "every placeholder must be interpolated")
}

func TestBuildSQLOptionalFilters(t *testing.T) {
	params := occupancyParams("A")
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)

	sql, err := buildSQL(params, start, end, false)
	require.NoError(t, err)
	assert.NotContains(t, sql, "fillup")
	assert.NotContains(t, sql, "t.source")

	params.ExcludeFillups = true
	params.Source = "FMS"
	sql, err = buildSQL(params, start, end, false)
	require.NoError(t, err)
	assert.Contains(t, sql, "not t.fillup")
	assert.Contains(t, sql, "t.source = 'FMS'")
}

func TestBuildSQLEscapesFacilityIDs(t *testing.T) {
	params := occupancyParams(`X'; drop table bezettingsdata; --`)
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)

	sql, err := buildSQL(params, start, end, false)
	require.NoError(t, err)
	assert.Contains(t, sql, `'X''; drop table bezettingsdata; --'`)
	assert.NotContains(t, sql, `= 'X';`)
}

func TestBuildSQLCacheTableSelection(t *testing.T) {
	params := occupancyParams("A")
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)

	raw, err := buildSQL(params, start, end, false)
	require.NoError(t, err)
	assert.Contains(t, raw, "from bezettingsdata t")

	cached, err := buildSQL(params, start, end, true)
	require.NoError(t, err)
	assert.Contains(t, cached, "from bezettingsdata_cache t")
}

func TestBuildSQLRelativeOccupancy(t *testing.T) {
	params := occupancyParams("A")
	params.ReportType = domain.ReportBezettingRelatief
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)

	sql, err := buildSQL(params, start, end, false)
	require.NoError(t, err)
	assert.Zero(t, strings.Count(sql, "union all"))
	assert.Contains(t, sql, "'A_bezetting' as category")
	assert.Contains(t, sql, "nullif(max(t.capacity), 0)")
}

func TestBuildSQLTransacties(t *testing.T) {
	params := occupancyParams("A", "B")
	params.ReportType = domain.ReportTransacties
	params.Grouping = domain.PerDag
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)

	sql, err := buildSQL(params, start, end, true)
	require.NoError(t, err)
	assert.Contains(t, sql, "from transacties_cache t")
	assert.Contains(t, sql, "'A_transacties' as category")
	assert.Contains(t, sql, "'B_inkomsten' as category")
	assert.Equal(t, 3, strings.Count(sql, "union all"))

	sql, err = buildSQL(params, start, end, false)
	require.NoError(t, err)
	assert.Contains(t, sql, "from transacties t")
	assert.Contains(t, sql, "count(*)")
}

func TestBuildSQLTransactiesCacheRejectsSubDayGrouping(t *testing.T) {
	params := occupancyParams("A")
	params.ReportType = domain.ReportTransacties
	params.Grouping = domain.PerUur

	_, err := buildSQL(params, params.StartDT, params.EndDT, true)
	require.Error(t, err)
}

func TestBuildSQLStallingsduur(t *testing.T) {
	params := occupancyParams("A")
	params.ReportType = domain.ReportStallingsduur
	params.Grouping = domain.PerDag
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)

	sql, err := buildSQL(params, start, end, true)
	require.NoError(t, err)
	// one series per duration bucket
	assert.Equal(t, 5, strings.Count(sql, "union all"))
	assert.Contains(t, sql, "'A_<1u' as category")
	assert.Contains(t, sql, "'A_>24u' as category")
	assert.Contains(t, sql, "t.duration_bucket = '<1u'")

	sql, err = buildSQL(params, start, end, false)
	require.NoError(t, err)
	assert.Contains(t, sql, "t.checkout is not null")
	assert.Contains(t, sql, "extract(epoch from (t.checkout - t.checkin))")
}

func TestBuildSQLUnknownReportType(t *testing.T) {
	params := occupancyParams("A")
	params.ReportType = "sterrenwichelarij"

	_, err := buildSQL(params, params.StartDT, params.EndDT, false)
	require.Error(t, err)
}
