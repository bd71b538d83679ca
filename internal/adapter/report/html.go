// Package report renders a human-readable season summary: a Markdown table
// of storms converted to HTML with goldmark.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

// HTMLWriter writes the season summary page. It implements pipeline.Loader.
type HTMLWriter struct {
	path   string
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewHTMLWriter creates a writer targeting path.
func NewHTMLWriter(path string, logger *slog.Logger) *HTMLWriter {
	return &HTMLWriter{
		path:   path,
		md:     goldmark.New(goldmark.WithExtensions(extension.Table)),
		logger: logger,
	}
}

func (w *HTMLWriter) Load(_ context.Context, season domain.Season) error {
	page, err := w.Render(season)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write report %s: %w", w.path, err)
		}
	}
	if err := os.WriteFile(w.path, page, 0o644); err != nil { //nolint:gosec // report is meant to be shared
		return fmt.Errorf("write report %s: %w", w.path, err)
	}
	w.logger.Info("html report written", "path", w.path)
	return nil
}

// Render converts the season summary to a standalone HTML document.
func (w *HTMLWriter) Render(season domain.Season) ([]byte, error) {
	var body bytes.Buffer
	if err := w.md.Convert([]byte(Markdown(season)), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	title := html.EscapeString(fmt.Sprintf("%d storm season", season.Year))
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", title)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Markdown builds the Markdown source of the season summary.
func Markdown(season domain.Season) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %d storm season\n\n", season.Year)
	if season.URL != "" {
		fmt.Fprintf(&b, "Source: <%s>\n\n", season.URL)
	}
	if !season.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated %s.\n\n", season.GeneratedAt.UTC().Format(time.RFC3339))
	}

	fmt.Fprintf(&b, "## Storms (%d)\n\n", len(season.Reports))
	b.WriteString("| Storm | Start | End | Deaths | Areas affected |\n")
	b.WriteString("|---|---|---|---:|---|\n")
	for _, row := range season.Rows() {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
			cell(row.StormName), row.DateStart, row.DateEnd, row.NumberOfDeaths, cell(row.AreasAffected))
	}

	if len(season.Skipped) > 0 {
		b.WriteString("\n## Skipped sections\n\n")
		for _, s := range season.Skipped {
			fmt.Fprintf(&b, "- %s (%s)\n", escapeInline(s.Name), s.Reason)
		}
	}

	b.WriteString("\n## Token usage\n\n")
	fmt.Fprintf(&b, "- Prompt: %d\n- Completion: %d\n- Total: %d\n",
		season.Usage.PromptTokens, season.Usage.CompletionTokens, season.Usage.TotalTokens)

	return b.String()
}

// cell escapes characters that would break a GFM table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}
