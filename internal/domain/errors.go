package domain

import "errors"

var (
	// ErrNoContent is returned when a step receives an absent page, e.g.
	// after the fetcher got a non-200 response.
	ErrNoContent = errors.New("no page content")

	// ErrUnexpectedLayout is returned when the page does not contain the
	// heading structure of a season article.
	ErrUnexpectedLayout = errors.New("unexpected page layout")

	// ErrInvalidDate is returned when an infobox date is not "Month Day".
	ErrInvalidDate = errors.New("invalid date")

	// ErrMalformedEnrichment is returned when the text-extraction service
	// answers with something that is not the expected JSON object. Callers
	// may retry or skip the storm.
	ErrMalformedEnrichment = errors.New("malformed enrichment response")
)
