package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
	"github.com/couchcryptid/storm-season-scraper/internal/observability"
	"github.com/couchcryptid/storm-season-scraper/internal/pipeline"
)

func TestStormAssembler_Assemble(t *testing.T) {
	freezeClock(t)

	enricher := &scriptedEnricher{replies: []enrichReply{{
		result: domain.EnrichmentResult{DeathCount: 30, AffectedAreas: []string{"Mazatlán", "Sinaloa"}},
		usage:  domain.TokenUsage{PromptTokens: 90, CompletionTokens: 15, TotalTokens: 105},
	}}}
	asm := pipeline.NewAssembler(enricher, nil, 2, discardLogger(), observability.NewMetricsForTesting())

	report, usage, err := asm.Assemble(context.Background(), storm("Hurricane Olivia", "October 22", "October 25"), testYear)
	require.NoError(t, err)

	assert.Equal(t, domain.OutputRow{
		StormName:      "Hurricane Olivia",
		DateStart:      "1975-10-22",
		DateEnd:        "1975-10-25",
		NumberOfDeaths: 30,
		AreasAffected:  "Mazatlán, Sinaloa",
	}, report.Row)
	assert.Equal(t, int64(105), usage.TotalTokens)
	assert.Equal(t, time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC), report.ProcessedAt)
	assert.NotEmpty(t, report.ID)
}

func TestStormAssembler_UsageKeptOnFailure(t *testing.T) {
	enricher := &scriptedEnricher{replies: []enrichReply{malformedReply()}}
	asm := pipeline.NewAssembler(enricher, nil, 3, discardLogger(), observability.NewMetricsForTesting())

	_, usage, err := asm.Assemble(context.Background(), storm("Hurricane Agatha", "June 2", "June 5"), testYear)
	require.ErrorIs(t, err, domain.ErrMalformedEnrichment)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Len(t, enricher.descriptions, 3)
	assert.Equal(t, int64(3*105), usage.TotalTokens)
}

func TestStormAssembler_MaxAttemptsFloor(t *testing.T) {
	enricher := &scriptedEnricher{replies: []enrichReply{malformedReply()}}
	asm := pipeline.NewAssembler(enricher, nil, 0, discardLogger(), observability.NewMetricsForTesting())

	_, _, err := asm.Assemble(context.Background(), storm("Hurricane Agatha", "June 2", "June 5"), testYear)
	require.ErrorIs(t, err, domain.ErrMalformedEnrichment)
	assert.Len(t, enricher.descriptions, 1)
}

func TestStormAssembler_InvalidEndDate(t *testing.T) {
	enricher := &scriptedEnricher{replies: []enrichReply{pacificReply()}}
	asm := pipeline.NewAssembler(enricher, nil, 2, discardLogger(), observability.NewMetricsForTesting())

	_, usage, err := asm.Assemble(context.Background(), storm("Hurricane Agatha", "June 2", "sometime"), testYear)
	require.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Equal(t, domain.TokenUsage{}, usage)
	assert.Empty(t, enricher.descriptions)
}
