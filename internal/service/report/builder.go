package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
	"github.com/veiligstallen/reports/internal/pkg/sqlfmt"
	"github.com/veiligstallen/reports/internal/pkg/store"
)

const dateLayout = "2006-01-02 15:04:05"

// emptyResultSQL is the sentinel statement for an empty facility selection:
// syntactically valid, same column shape, zero rows. The series assembler
// downstream is never handed broken SQL.
const emptyResultSQL = `select '' as category, '' as bucket, 0::float8 as value where 1=0`

// seriesDef is one series within a report: its label suffix, its aggregate
// expression over alias t and any series-specific conjuncts (already
// escaped literals).
type seriesDef struct {
	suffix string
	agg    string
	where  []string
}

// queryDef is a compiled report type: where its rows come from and which
// series to emit per facility. All report types flow through the same
// block emitter.
type queryDef struct {
	table       string
	tsCol       string // unqualified column name, quoted where needed
	intervalMin int
	useCache    bool
	// occupancy tables carry rows at several sampling intervals; filter
	// each block down to the finest interval present in the window
	intervalFilter bool
	hasFillup      bool
	hasSource      bool
	series         []seriesDef
}

func queryDefFor(params domain.ReportParams, useCache bool) (queryDef, error) {
	switch params.ReportType {
	case domain.ReportBezettingAbsoluut:
		def := occupancyDef(useCache)
		def.series = []seriesDef{
			{suffix: "capacity", agg: "max(t.capacity)"},
			{suffix: "occupation", agg: "round(avg(t.occupation))"},
		}
		return def, nil

	case domain.ReportBezettingRelatief:
		def := occupancyDef(useCache)
		def.series = []seriesDef{
			{suffix: "bezetting", agg: "round(avg(t.occupation) * 100 / nullif(max(t.capacity), 0))"},
		}
		return def, nil

	case domain.ReportTransacties:
		if useCache {
			return queryDef{
				table:       "transacties_cache",
				tsCol:       "date",
				intervalMin: 24 * 60,
				useCache:    true,
				series: []seriesDef{
					{suffix: "transacties", agg: "sum(t.count_transacties)"},
					{suffix: "inkomsten", agg: "sum(t.sum_price)"},
				},
			}, nil
		}
		return queryDef{
			table:       "transacties",
			tsCol:       "checkin",
			intervalMin: 1,
			hasSource:   true,
			series: []seriesDef{
				{suffix: "transacties", agg: "count(*)"},
				{suffix: "inkomsten", agg: "coalesce(sum(t.price), 0)"},
			},
		}, nil

	case domain.ReportStallingsduur:
		return stallingsduurDef(useCache), nil

	default:
		return queryDef{}, fmt.Errorf("%w: %q", constants.ErrUnknownReportType, params.ReportType)
	}
}

func occupancyDef(useCache bool) queryDef {
	def := queryDef{
		tsCol:          `"timestamp"`,
		intervalFilter: true,
		hasFillup:      true,
		hasSource:      true,
	}
	if useCache {
		def.table = "bezettingsdata_cache"
		def.intervalMin = 60
		def.useCache = true
	} else {
		def.table = "bezettingsdata"
		def.intervalMin = 15
	}
	return def
}

func stallingsduurDef(useCache bool) queryDef {
	var def queryDef
	if useCache {
		def = queryDef{
			table:       "stallingsduur_cache",
			tsCol:       "date",
			intervalMin: 24 * 60,
			useCache:    true,
		}
	} else {
		def = queryDef{
			table:       "transacties",
			tsCol:       "checkin",
			intervalMin: 1,
			hasSource:   true,
		}
	}

	for _, bucket := range store.StallingsduurBuckets {
		s := seriesDef{suffix: bucket}
		if useCache {
			s.agg = "sum(t.count_transacties)"
			s.where = []string{fmt.Sprintf("t.duration_bucket = %s", sqlfmt.Quote(bucket))}
		} else {
			s.agg = "count(*)"
			s.where = []string{
				"t.checkout is not null",
				fmt.Sprintf("(%s) = %s", store.StallingsduurBucketExpr, sqlfmt.Quote(bucket)),
			}
		}
		def.series = append(def.series, s)
	}
	return def
}

// buildSQL compiles the report into one finished statement: one SELECT
// block per facility per series, joined with UNION ALL, interpolated and
// globally ordered by bucket. start/end must already be aligned.
func buildSQL(params domain.ReportParams, start, end time.Time, useCache bool) (string, error) {
	if len(params.BikeparkIDs) == 0 {
		return emptyResultSQL, nil
	}

	def, err := queryDefFor(params, useCache)
	if err != nil {
		return "", err
	}

	if params.Source != "" && !def.hasSource {
		return "", fmt.Errorf("%w: source filter requires raw data for %s",
			constants.ErrInvalidParams, params.ReportType)
	}

	bucketExpr, err := periodExpr(params.Grouping, def.intervalMin, "t."+def.tsCol, def.useCache)
	if err != nil {
		return "", err
	}

	var (
		blocks []string
		args   []string
	)
	startArg := start.Format(dateLayout)
	endArg := end.Format(dateLayout)

	for _, id := range params.BikeparkIDs {
		for _, series := range def.series {
			conds := []string{
				fmt.Sprintf("t.bikepark_id = %s", sqlfmt.Quote(id)),
				fmt.Sprintf("t.%s between ? and ?", def.tsCol),
			}
			args = append(args, startArg, endArg)

			if def.intervalFilter {
				conds = append(conds, fmt.Sprintf(
					`t."interval" = (select min(b2."interval") from %s b2 where b2.bikepark_id = %s and b2.%s between ? and ?)`,
					def.table, sqlfmt.Quote(id), def.tsCol))
				args = append(args, startArg, endArg)
			}
			if params.ExcludeFillups && def.hasFillup {
				conds = append(conds, "not t.fillup")
			}
			if params.Source != "" {
				conds = append(conds, fmt.Sprintf("t.source = %s", sqlfmt.Quote(params.Source)))
			}
			conds = append(conds, series.where...)

			blocks = append(blocks, fmt.Sprintf(
				"select %s as category, %s as bucket, (%s)::float8 as value\nfrom %s t\nwhere %s\ngroup by bucket",
				sqlfmt.Quote(id+"_"+series.suffix),
				bucketExpr,
				series.agg,
				def.table,
				strings.Join(conds, "\n  and ")))
		}
	}

	sql := strings.Join(blocks, "\nunion all\n") + "\norder by bucket asc"

	return sqlfmt.Interpolate(sql, args)
}
