package domain

import (
	"fmt"
	"time"
)

// CacheFamily selects one of the three report cache tables.
type CacheFamily string

const (
	CacheTransacties   CacheFamily = "transacties"
	CacheBezetting     CacheFamily = "bezettingsdata"
	CacheStallingsduur CacheFamily = "stallingsduur"
)

type CacheAction string

const (
	CacheActionStatus              CacheAction = "status"
	CacheActionCreateTable         CacheAction = "createtable"
	CacheActionDropTable           CacheAction = "droptable"
	CacheActionClear               CacheAction = "clear"
	CacheActionRebuild             CacheAction = "rebuild"
	CacheActionUpdate              CacheAction = "update"
	CacheActionCreateParentIndices CacheAction = "createparentindices"
	CacheActionDropParentIndices   CacheAction = "dropparentindices"
)

// CacheParams drives one lifecycle action against one cache table.
// AllDates expands the window to the configured horizon, AllBikeparks
// expands the selection to every facility.
type CacheParams struct {
	Action       CacheAction `json:"action" validate:"required"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	BikeparkIDs  []string    `json:"selectedBikeparkIDs"`
	AllDates     bool        `json:"allDates"`
	AllBikeparks bool        `json:"allBikeparks"`
	// Incremental switches update/rebuild to day-by-day recomputation.
	Incremental bool `json:"incremental"`
}

// CacheStatus describes a cache table after an action.
type CacheStatus struct {
	TableExists bool       `json:"tableExists"`
	RowCount    int64      `json:"rowCount"`
	FirstDate   *time.Time `json:"firstDate,omitempty"`
	LastDate    *time.Time `json:"lastDate,omitempty"`
	Summary     string     `json:"summary"`
}

// Describe fills Summary from the other fields.
func (s *CacheStatus) Describe(family CacheFamily) {
	if !s.TableExists {
		s.Summary = fmt.Sprintf("%s cache: table missing", family)
		return
	}
	if s.RowCount == 0 || s.FirstDate == nil || s.LastDate == nil {
		s.Summary = fmt.Sprintf("%s cache: empty", family)
		return
	}
	s.Summary = fmt.Sprintf("%s cache: %d rows, %s .. %s",
		family, s.RowCount,
		s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
}
