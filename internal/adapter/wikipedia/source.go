package wikipedia

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

// Source fetches a season article and extracts its heading blocks.
// It implements pipeline.StormSource.
type Source struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewSource creates a Source backed by a Fetcher with the given timeout.
func NewSource(timeout time.Duration, logger *slog.Logger) *Source {
	return &Source{fetcher: NewFetcher(timeout, logger), logger: logger}
}

// ExtractStorms fetches url and extracts all heading blocks. An absent page
// surfaces as domain.ErrNoContent.
func (s *Source) ExtractStorms(ctx context.Context, url string) ([]domain.StormRecord, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	records, err := Extract(page)
	if err != nil {
		return nil, err
	}

	s.logger.Info("extracted heading blocks", "url", url, "count", len(records))
	return records, nil
}
