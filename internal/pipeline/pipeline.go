package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
	"github.com/couchcryptid/storm-season-scraper/internal/observability"
)

// Skip reasons recorded for storms that yield no row, in addition to the
// section kinds of non-storm blocks.
const (
	reasonInvalidDate         = "invalid_date"
	reasonMalformedEnrichment = "malformed_enrichment"
)

// StormSource fetches a season page and returns its heading blocks in page order.
type StormSource interface {
	ExtractStorms(ctx context.Context, url string) ([]domain.StormRecord, error)
}

// Assembler converts one storm record into a report.
type Assembler interface {
	Assemble(ctx context.Context, record domain.StormRecord, year int) (domain.StormReport, domain.TokenUsage, error)
}

// Loader persists or publishes a completed season.
type Loader interface {
	Load(ctx context.Context, season domain.Season) error
}

// Target identifies the season page to scrape.
type Target struct {
	URL  string
	Year int
}

// Pipeline orchestrates the extract-enrich-load run.
type Pipeline struct {
	target    Target
	source    StormSource
	assembler Assembler
	loaders   []Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	last      atomic.Pointer[domain.Season]
}

// New creates a Pipeline with the given stages and observability. Loaders
// run in the order given.
func New(target Target, src StormSource, asm Assembler, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		target:    target,
		source:    src,
		assembler: asm,
		loaders:   loaders,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a run has completed and its outputs were
// written, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no season has been scraped yet")
	}
	return nil
}

// LastSeason returns the season produced by the most recent successful run.
func (p *Pipeline) LastSeason() (domain.Season, bool) {
	season := p.last.Load()
	if season == nil {
		return domain.Season{}, false
	}
	return *season, true
}

// Run scrapes the target season once. Storms with invalid dates or
// persistently malformed enrichment are skipped and reported in
// Season.Skipped; any other failure aborts the run before outputs are written.
func (p *Pipeline) Run(ctx context.Context) (domain.Season, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("pipeline started", "url", p.target.URL, "year", p.target.Year)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := time.Now()

	records, err := p.source.ExtractStorms(ctx, p.target.URL)
	if err != nil {
		return domain.Season{}, fmt.Errorf("extract storms: %w", err)
	}
	p.metrics.SectionsExtracted.Add(float64(len(records)))

	season := domain.Season{RunID: runID, URL: p.target.URL, Year: p.target.Year}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return season, err
		}
		if !record.IsStorm() {
			p.skip(logger, &season, record.Name, record.Kind.String(), nil)
			continue
		}

		report, usage, err := p.assembler.Assemble(ctx, record, p.target.Year)
		season.Usage = season.Usage.Add(usage)
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			p.skip(logger, &season, record.Name, reasonInvalidDate, err)
			continue
		case errors.Is(err, domain.ErrMalformedEnrichment):
			p.skip(logger, &season, record.Name, reasonMalformedEnrichment, err)
			continue
		case err != nil:
			return season, err
		}

		season.Reports = append(season.Reports, report)
		p.metrics.RowsWritten.Inc()
	}
	season.GeneratedAt = domain.Now()

	for _, l := range p.loaders {
		if err := l.Load(ctx, season); err != nil {
			return season, fmt.Errorf("load season: %w", err)
		}
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.last.Store(&season)
	p.ready.Store(true)
	logger.Info("pipeline finished",
		"rows", len(season.Reports),
		"skipped", len(season.Skipped),
		"tokens_used", season.Usage.TotalTokens,
		"duration", time.Since(start),
	)
	return season, nil
}

func (p *Pipeline) skip(logger *slog.Logger, season *domain.Season, name, reason string, err error) {
	season.Skipped = append(season.Skipped, domain.SkippedSection{Name: name, Reason: reason})
	p.metrics.SectionsSkipped.WithLabelValues(reason).Inc()
	if err != nil {
		logger.Warn("storm skipped", "storm", name, "reason", reason, "error", err)
		return
	}
	logger.Debug("section skipped", "section", name, "reason", reason)
}
