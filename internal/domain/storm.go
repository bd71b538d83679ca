package domain

import (
	"strconv"
	"time"
)

// StormRecord is one heading block extracted from a season article. Name,
// dates, and description are collected together so they cannot drift apart.
type StormRecord struct {
	Name        string      `json:"name"`
	StartDate   string      `json:"start_date"` // "Month Day" as printed in the infobox
	EndDate     string      `json:"end_date"`
	Description string      `json:"description"`
	Kind        SectionKind `json:"kind"`
}

// IsStorm reports whether the record was classified as a storm.
func (r StormRecord) IsStorm() bool {
	return r.Kind == SectionStorm
}

// EnrichmentResult holds the structured fields derived from a storm description.
type EnrichmentResult struct {
	DeathCount    int      `json:"number_of_deaths"`
	AffectedAreas []string `json:"areas_affected"`
}

// OutputRow is the persisted CSV shape.
type OutputRow struct {
	StormName      string
	DateStart      string // YYYY-MM-DD
	DateEnd        string // YYYY-MM-DD
	NumberOfDeaths int
	AreasAffected  string
}

// CSVHeader returns the column names of the output table in order.
func CSVHeader() []string {
	return []string{
		"hurricane_storm_name",
		"date_start",
		"date_end",
		"number_of_deaths",
		"list_of_areas_affected",
	}
}

// Record returns the row as CSV fields in [CSVHeader] order.
func (r OutputRow) Record() []string {
	return []string{
		r.StormName,
		r.DateStart,
		r.DateEnd,
		strconv.Itoa(r.NumberOfDeaths),
		r.AreasAffected,
	}
}

// AreaLocation is an affected area, optionally resolved by a geocoder.
type AreaLocation struct {
	Name             string  `json:"name"`
	Lat              float64 `json:"lat,omitempty"`
	Lon              float64 `json:"lon,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "original", "failed"
}

// StormReport is a fully assembled storm: the extracted record, its
// enrichment, and the derived output row.
type StormReport struct {
	ID          string           `json:"id"`
	Record      StormRecord      `json:"record"`
	Enrichment  EnrichmentResult `json:"enrichment"`
	Row         OutputRow        `json:"-"`
	DateStart   string           `json:"date_start"`
	DateEnd     string           `json:"date_end"`
	Areas       []AreaLocation   `json:"areas,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// SkippedSection records a heading block that produced no output row.
type SkippedSection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Season is the result of one scrape run.
type Season struct {
	RunID       string           `json:"run_id"`
	URL         string           `json:"url"`
	Year        int              `json:"year"`
	Reports     []StormReport    `json:"reports"`
	Skipped     []SkippedSection `json:"skipped,omitempty"`
	Usage       TokenUsage       `json:"usage"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Rows returns the output rows of all reports in page order.
func (s Season) Rows() []OutputRow {
	rows := make([]OutputRow, len(s.Reports))
	for i := range s.Reports {
		rows[i] = s.Reports[i].Row
	}
	return rows
}
