// Package output persists a scraped season to local files: the storm table
// as CSV and the token-usage log.
package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

// CSVWriter writes the season's output rows to a CSV file, replacing any
// previous contents. It implements pipeline.Loader.
type CSVWriter struct {
	path   string
	logger *slog.Logger
}

// NewCSVWriter creates a writer targeting path.
func NewCSVWriter(path string, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{path: path, logger: logger}
}

func (w *CSVWriter) Load(_ context.Context, season domain.Season) error {
	rows := season.Rows()
	if err := writeFile(w.path, func(f *os.File) error {
		cw := csv.NewWriter(f)
		if err := cw.Write(domain.CSVHeader()); err != nil {
			return err
		}
		for _, row := range rows {
			if err := cw.Write(row.Record()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}); err != nil {
		return fmt.Errorf("write csv %s: %w", w.path, err)
	}

	w.logger.Info("csv written", "path", w.path, "rows", len(rows))
	return nil
}

// writeFile creates (or truncates) path, creating parent directories as
// needed, and hands the open file to fill.
func writeFile(path string, fill func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
