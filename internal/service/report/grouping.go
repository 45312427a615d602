package report

import (
	"fmt"
	"time"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
)

// periodExpr returns the SQL expression that buckets col at the requested
// grouping. intervalMin is the finest sampling resolution of the source
// rows; useCache means col lives in a cache table (hour precision at best
// for occupancy, day precision for the others). A combination the source
// cannot resolve is a request-validation error: callers must not execute
// anything built after it.
func periodExpr(grouping domain.Grouping, intervalMin int, col string, useCache bool) (string, error) {
	switch grouping {
	case domain.PerKwartier:
		if useCache || intervalMin > 15 {
			return "", fmt.Errorf("%w: %s needs sub-quarter source data", constants.ErrUnsupportedGrouping, grouping)
		}
		return fmt.Sprintf(
			`to_char(to_timestamp(floor(extract(epoch from %s) / 900) * 900), 'YYYY-MM-DD HH24:MI')`, col), nil
	case domain.PerUur:
		if intervalMin > 60 {
			return "", fmt.Errorf("%w: %s needs sub-hour source data", constants.ErrUnsupportedGrouping, grouping)
		}
		return fmt.Sprintf(`to_char(date_trunc('hour', %s), 'YYYY-MM-DD HH24:MI')`, col), nil
	case domain.PerDag:
		return fmt.Sprintf(`to_char(date_trunc('day', %s), 'YYYY-MM-DD')`, col), nil
	case domain.PerWeekdag:
		// ISO day of week, 1 = Monday
		return fmt.Sprintf(`to_char(%s, 'ID')`, col), nil
	case domain.PerWeek:
		return fmt.Sprintf(`to_char(%s, 'IYYY-IW')`, col), nil
	case domain.PerMaand:
		return fmt.Sprintf(`to_char(%s, 'YYYY-MM')`, col), nil
	case domain.PerJaar:
		return fmt.Sprintf(`to_char(%s, 'YYYY')`, col), nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrUnsupportedGrouping, grouping)
	}
}

// alignRange snaps [start, end] onto bucket boundaries for the grouping:
// start is truncated down, end is rounded up to the end of its bucket, so
// partially covered edge buckets aggregate over their full source window.
func alignRange(grouping domain.Grouping, start, end time.Time) (time.Time, time.Time) {
	switch grouping {
	case domain.PerKwartier:
		start = start.Truncate(15 * time.Minute)
		end = ceil(end, 15*time.Minute)
	case domain.PerUur:
		start = start.Truncate(time.Hour)
		end = ceil(end, time.Hour)
	case domain.PerWeek:
		start = startOfISOWeek(start)
		end = startOfISOWeek(end).AddDate(0, 0, 7)
	case domain.PerMaand:
		start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		end = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location()).AddDate(0, 1, 0)
	case domain.PerJaar:
		start = time.Date(start.Year(), 1, 1, 0, 0, 0, 0, start.Location())
		end = time.Date(end.Year()+1, 1, 1, 0, 0, 0, 0, end.Location())
	default: // per_dag, per_weekdag
		start = startOfDay(start)
		end = startOfDay(end).AddDate(0, 0, 1)
	}
	return start, end
}

func ceil(t time.Time, d time.Duration) time.Time {
	truncated := t.Truncate(d)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(d)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfISOWeek(t time.Time) time.Time {
	t = startOfDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return t.AddDate(0, 0, 1-weekday)
}
