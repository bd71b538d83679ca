package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert assistant who extracts useful information from text."

// Prompt is the message pair sent for one storm.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt returns the extraction prompt for a storm description.
func BuildPrompt(description string) Prompt {
	var sb strings.Builder
	sb.WriteString("Extract from the text the following information as a JSON object:\n")
	sb.WriteString("1. The number of deaths ('number_of_deaths') as an integer (if no deaths, return 0).\n")
	sb.WriteString("2. A list of areas affected ('areas_affected') (mention locations only).\n")
	sb.WriteString("Return only the JSON object.\n\n")
	sb.WriteString(fmt.Sprintf("Text: %s\n", strings.TrimSpace(description)))

	return Prompt{
		System: systemPrompt,
		User:   sb.String(),
	}
}

// enrichmentSchema is the strict JSON schema requested from the model.
var enrichmentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"number_of_deaths": map[string]any{
			"type":        "integer",
			"description": "Number of deaths caused by the storm, 0 if none.",
		},
		"areas_affected": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Locations affected by the storm.",
		},
	},
	"required":             []string{"number_of_deaths", "areas_affected"},
	"additionalProperties": false,
}
