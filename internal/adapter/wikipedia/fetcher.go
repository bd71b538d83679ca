package wikipedia

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "storm-season-scraper/1.0 (+https://github.com/couchcryptid/storm-season-scraper)"

// Page is a parsed season article.
type Page struct {
	URL string
	doc *goquery.Document
}

// NewPage wraps an already parsed document.
func NewPage(url string, doc *goquery.Document) *Page {
	return &Page{URL: url, doc: doc}
}

// Fetcher downloads season articles.
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch issues a single GET for url. A non-200 response is logged and
// reported as an absent page (nil, nil); only transport and parse failures
// return an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("failed to retrieve the requested page", "url", url, "status", resp.StatusCode)
		return nil, nil //nolint:nilnil // absent page is not an error
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	f.logger.Info("fetched season page", "url", url)
	return NewPage(url, doc), nil
}
