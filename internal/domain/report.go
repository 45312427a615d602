package domain

import "time"

type ReportType string

const (
	ReportBezettingAbsoluut ReportType = "bezetting_absoluut"
	ReportBezettingRelatief ReportType = "bezetting_relatief"
	ReportTransacties       ReportType = "transacties"
	ReportStallingsduur     ReportType = "stallingsduur"
)

// Grouping is the requested time-bucket size for a report.
type Grouping string

const (
	PerKwartier Grouping = "per_kwartier"
	PerUur      Grouping = "per_uur"
	PerDag      Grouping = "per_dag"
	PerWeekdag  Grouping = "per_weekdag"
	PerWeek     Grouping = "per_week"
	PerMaand    Grouping = "per_maand"
	PerJaar     Grouping = "per_jaar"
)

// ReportParams is the request envelope for one report run. BikeparkIDs may
// be narrowed by the caller's auth context before SQL is built.
type ReportParams struct {
	ReportType     ReportType `json:"reportType" validate:"required"`
	Grouping       Grouping   `json:"reportGrouping" validate:"required"`
	BikeparkIDs    []string   `json:"bikeparkIDs"`
	StartDT        time.Time  `json:"startDT" validate:"required"`
	EndDT          time.Time  `json:"endDT" validate:"required,gtfield=StartDT"`
	ExcludeFillups bool       `json:"fillups"`
	Source         string     `json:"source"`
}

// SeriesPoint is one bucketed value within a series.
type SeriesPoint struct {
	Bucket string  `json:"bucket" db:"bucket"`
	Value  float64 `json:"value" db:"value"`
}

// ReportSeries is one named, time-ordered series of a report response,
// e.g. "A_capacity". BikeparkID and Label are the two halves of Name,
// split at the last underscore.
type ReportSeries struct {
	Name       string        `json:"name"`
	BikeparkID string        `json:"bikeparkID"`
	Label      string        `json:"label"`
	Points     []SeriesPoint `json:"points"`
}

// CategoryRow is the shape every report statement produces: a synthetic
// category label (bikeparkID + "_" + series suffix), a bucket label and a
// value.
type CategoryRow struct {
	Category string  `db:"category"`
	Bucket   string  `db:"bucket"`
	Value    float64 `db:"value"`
}
