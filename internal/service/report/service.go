package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/logger"
	"github.com/veiligstallen/reports/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewReportService(store store.Store) *Service {
	return &Service{store: store}
}

// Run builds, executes and assembles one report. The facility selection is
// narrowed to the caller's accessible set before any SQL is built; an
// empty result of that narrowing flows into the zero-row sentinel
// statement, not an error.
func (s *Service) Run(ctx context.Context, auth domain.AuthContext, params domain.ReportParams, useCache bool) ([]domain.ReportSeries, error) {
	params.BikeparkIDs = auth.Narrow(params.BikeparkIDs)
	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)

	sql, err := buildSQL(params, start, end, useCache)
	if err != nil {
		return nil, fmt.Errorf("buildSQL: %w", err)
	}

	logger.Debugf(ctx, "report %s: %s", params.ReportType, sql)

	rows, err := s.store.SelectCategoryRows(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("store.SelectCategoryRows: %w", err)
	}

	return assembleSeries(rows), nil
}

// TransactionTotals is the supplemental count/revenue summary shown next
// to the transaction report.
type TransactionTotals struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

func (s *Service) Totals(ctx context.Context, auth domain.AuthContext, params domain.ReportParams) (*TransactionTotals, error) {
	ids := auth.Narrow(params.BikeparkIDs)
	if len(ids) == 0 {
		return &TransactionTotals{Revenue: decimal.Zero}, nil
	}

	start, end := alignRange(params.Grouping, params.StartDT, params.EndDT)
	totals, err := s.store.SelectTransactionTotals(ctx, start, end, ids)
	if err != nil {
		return nil, fmt.Errorf("store.SelectTransactionTotals: %w", err)
	}

	return &TransactionTotals{Count: totals.Count, Revenue: totals.Revenue}, nil
}

// assembleSeries splits each category label at its last underscore into
// facility and series suffix, and groups points per series in arrival
// (bucket) order. Rows come back already time-ordered, so points stay
// sorted within a series.
func assembleSeries(rows []*domain.CategoryRow) []domain.ReportSeries {
	series := make([]domain.ReportSeries, 0, 4)
	index := make(map[string]int)

	for _, row := range rows {
		if row.Category == "" {
			continue // sentinel shape, never actually produced
		}
		i, ok := index[row.Category]
		if !ok {
			var bikeparkID, label string
			if cut := strings.LastIndex(row.Category, "_"); cut >= 0 {
				bikeparkID, label = row.Category[:cut], row.Category[cut+1:]
			}

			i = len(series)
			index[row.Category] = i
			series = append(series, domain.ReportSeries{
				Name:       row.Category,
				BikeparkID: bikeparkID,
				Label:      label,
			})
		}
		series[i].Points = append(series[i].Points, domain.SeriesPoint{
			Bucket: row.Bucket,
			Value:  row.Value,
		})
	}

	return series
}
