package output

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

// UsageLogWriter records the season's cumulative LLM token usage.
type UsageLogWriter struct {
	path   string
	logger *slog.Logger
}

// NewUsageLogWriter creates a writer targeting path.
func NewUsageLogWriter(path string, logger *slog.Logger) *UsageLogWriter {
	return &UsageLogWriter{path: path, logger: logger}
}

func (w *UsageLogWriter) Load(_ context.Context, season domain.Season) error {
	if err := writeFile(w.path, func(f *os.File) error {
		_, err := f.WriteString(FormatUsage(season.Usage))
		return err
	}); err != nil {
		return fmt.Errorf("write usage log %s: %w", w.path, err)
	}

	w.logger.Info("usage log written",
		"path", w.path,
		"total_tokens", season.Usage.TotalTokens,
	)
	return nil
}

// FormatUsage renders the three-line usage log. The last line carries no
// trailing newline.
func FormatUsage(u domain.TokenUsage) string {
	return fmt.Sprintf("tokens_used: %d\nprompt_tokens: %d\ncompletion_tokens: %d",
		u.TotalTokens, u.PromptTokens, u.CompletionTokens)
}
