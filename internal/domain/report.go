package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// BuildReport assembles a storm report from an extracted record and its
// enrichment. Dates are normalized under the season year; a date that does
// not parse fails with ErrInvalidDate.
func BuildReport(record StormRecord, enrichment EnrichmentResult, year int) (StormReport, error) {
	start, end, err := NormalizeDateRange(record.StartDate, record.EndDate, year)
	if err != nil {
		return StormReport{}, fmt.Errorf("storm %q: %w", record.Name, err)
	}

	areas := make([]AreaLocation, 0, len(enrichment.AffectedAreas))
	for _, a := range enrichment.AffectedAreas {
		areas = append(areas, AreaLocation{Name: a})
	}

	return StormReport{
		ID:         reportID(year, record.Name),
		Record:     record,
		Enrichment: enrichment,
		Row: OutputRow{
			StormName:      record.Name,
			DateStart:      start,
			DateEnd:        end,
			NumberOfDeaths: enrichment.DeathCount,
			AreasAffected:  JoinAreas(enrichment.AffectedAreas),
		},
		DateStart:   start,
		DateEnd:     end,
		Areas:       areas,
		ProcessedAt: clock.Now(),
	}, nil
}

// reportID produces a deterministic ID from the season year and storm name,
// so re-scraping a season yields the same keys.
func reportID(year int, name string) string {
	input := fmt.Sprintf("%d|%s", year, strings.ToLower(strings.TrimSpace(name)))
	hash := sha256.Sum256([]byte(input))
	return "storm-" + hex.EncodeToString(hash[:8])
}
