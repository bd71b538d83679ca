package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
	"github.com/couchcryptid/storm-season-scraper/internal/observability"
)

// StormAssembler implements Assembler: date validation, LLM enrichment with
// bounded retries on malformed answers, and optional geocoding.
type StormAssembler struct {
	enricher    domain.Enricher
	geocoder    domain.Geocoder
	maxAttempts int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewAssembler creates a StormAssembler. Pass a nil geocoder to disable
// geocoding enrichment. maxAttempts below 1 is treated as 1.
func NewAssembler(enricher domain.Enricher, geocoder domain.Geocoder, maxAttempts int, logger *slog.Logger, metrics *observability.Metrics) *StormAssembler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &StormAssembler{
		enricher:    enricher,
		geocoder:    geocoder,
		maxAttempts: maxAttempts,
		logger:      logger,
		metrics:     metrics,
	}
}

// Assemble turns one storm record into a report. The returned usage covers
// every enrichment attempt, including failed ones.
func (a *StormAssembler) Assemble(ctx context.Context, record domain.StormRecord, year int) (domain.StormReport, domain.TokenUsage, error) {
	// Dates are checked first so an unparseable infobox costs no tokens.
	if _, _, err := domain.NormalizeDateRange(record.StartDate, record.EndDate, year); err != nil {
		return domain.StormReport{}, domain.TokenUsage{}, fmt.Errorf("storm %q: %w", record.Name, err)
	}

	enrichment, usage, err := a.enrich(ctx, record)
	if err != nil {
		return domain.StormReport{}, usage, err
	}

	report, err := domain.BuildReport(record, enrichment, year)
	if err != nil {
		return domain.StormReport{}, usage, err
	}
	report = domain.EnrichWithGeocoding(ctx, report, a.geocoder, a.logger)

	return report, usage, nil
}

func (a *StormAssembler) enrich(ctx context.Context, record domain.StormRecord) (domain.EnrichmentResult, domain.TokenUsage, error) {
	var total domain.TokenUsage
	var lastErr error

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		start := time.Now()
		result, usage, err := a.enricher.Enrich(ctx, record.Description)
		a.metrics.EnrichDuration.Observe(time.Since(start).Seconds())
		a.recordTokens(usage)
		total = total.Add(usage)

		if err == nil {
			a.metrics.EnrichRequests.WithLabelValues("success").Inc()
			a.logger.Debug("storm enriched",
				"storm", record.Name,
				"deaths", result.DeathCount,
				"areas", len(result.AffectedAreas),
				"attempt", attempt,
			)
			return result, total, nil
		}

		if !errors.Is(err, domain.ErrMalformedEnrichment) {
			a.metrics.EnrichRequests.WithLabelValues("error").Inc()
			return domain.EnrichmentResult{}, total, fmt.Errorf("enrich storm %q: %w", record.Name, err)
		}

		a.metrics.EnrichRequests.WithLabelValues("malformed").Inc()
		a.logger.Warn("malformed enrichment response",
			"storm", record.Name,
			"attempt", attempt,
			"max_attempts", a.maxAttempts,
			"error", err,
		)
		lastErr = err
	}

	return domain.EnrichmentResult{}, total, fmt.Errorf("storm %q after %d attempts: %w", record.Name, a.maxAttempts, lastErr)
}

func (a *StormAssembler) recordTokens(u domain.TokenUsage) {
	a.metrics.LLMTokens.WithLabelValues("prompt").Add(float64(u.PromptTokens))
	a.metrics.LLMTokens.WithLabelValues("completion").Add(float64(u.CompletionTokens))
	a.metrics.LLMTokens.WithLabelValues("total").Add(float64(u.TotalTokens))
}
