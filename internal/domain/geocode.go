package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding resolves each affected area of a report to coordinates.
// If geocoder is nil the report is returned untouched; a failed lookup marks
// only that area (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, report StormReport, geocoder Geocoder, logger *slog.Logger) StormReport {
	if geocoder == nil {
		return report
	}

	areas := make([]AreaLocation, 0, len(report.Enrichment.AffectedAreas))
	for _, name := range report.Enrichment.AffectedAreas {
		area := AreaLocation{Name: name}

		result, err := geocoder.ForwardGeocode(ctx, name)
		switch {
		case err != nil:
			logger.Warn("forward geocoding failed",
				"report_id", report.ID,
				"storm", report.Record.Name,
				"area", name,
				"error", err,
			)
			area.GeoSource = "failed"
		case result.Lat != 0 || result.Lon != 0:
			area.Lat = result.Lat
			area.Lon = result.Lon
			area.FormattedAddress = result.FormattedAddress
			area.PlaceName = result.PlaceName
			area.Confidence = result.Confidence
			area.GeoSource = "forward"
		default:
			area.GeoSource = "original"
		}
		areas = append(areas, area)
	}

	report.Areas = areas
	return report
}
