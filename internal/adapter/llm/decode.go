package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

type enrichmentPayload struct {
	NumberOfDeaths *int      `json:"number_of_deaths"`
	AreasAffected  *[]string `json:"areas_affected"`
}

// DecodeEnrichment strictly decodes a model answer into an EnrichmentResult.
// Markdown code fences are stripped; unknown keys, missing keys, negative
// death counts, and trailing data are rejected with domain.ErrMalformedEnrichment.
func DecodeEnrichment(text string) (domain.EnrichmentResult, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return domain.EnrichmentResult{}, fmt.Errorf("%w: empty response", domain.ErrMalformedEnrichment)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.DisallowUnknownFields()

	var p enrichmentPayload
	if err := dec.Decode(&p); err != nil {
		return domain.EnrichmentResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedEnrichment, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.EnrichmentResult{}, fmt.Errorf("%w: trailing data after object", domain.ErrMalformedEnrichment)
	}

	switch {
	case p.NumberOfDeaths == nil:
		return domain.EnrichmentResult{}, fmt.Errorf("%w: missing number_of_deaths", domain.ErrMalformedEnrichment)
	case p.AreasAffected == nil:
		return domain.EnrichmentResult{}, fmt.Errorf("%w: missing areas_affected", domain.ErrMalformedEnrichment)
	case *p.NumberOfDeaths < 0:
		return domain.EnrichmentResult{}, fmt.Errorf("%w: negative number_of_deaths %d", domain.ErrMalformedEnrichment, *p.NumberOfDeaths)
	}

	areas := make([]string, 0, len(*p.AreasAffected))
	for _, a := range *p.AreasAffected {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}

	return domain.EnrichmentResult{
		DeathCount:    *p.NumberOfDeaths,
		AffectedAreas: areas,
	}, nil
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
