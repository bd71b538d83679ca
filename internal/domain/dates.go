package domain

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var (
	// footnoteRe matches citation markers such as "[1]" or "[nb 2]".
	footnoteRe = regexp.MustCompile(`\[[^\]]*\]`)

	// seasonSlugRe matches the leading year of an article slug,
	// e.g. "1975_Pacific_hurricane_season" -> "1975".
	seasonSlugRe = regexp.MustCompile(`^(\d{4})_`)
)

// SplitDateRange splits an infobox date cell into start and end strings.
// The page separates them with an NBSP and an en dash; any whitespace around
// the dash is accepted. A cell without a dash is a single-day system and yields
// the same value for both ends.
func SplitDateRange(cell string) (string, string) {
	cell = strings.TrimSpace(footnoteRe.ReplaceAllString(cell, ""))
	if cell == "" {
		return "", ""
	}

	if start, end, ok := strings.Cut(cell, "–"); ok {
		return cleanDate(start), cleanDate(end)
	}
	c := cleanDate(cell)
	return c, c
}

// cleanDate collapses whitespace, NBSP included, to single spaces.
func cleanDate(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDate parses a "Month Day" string under the given year and returns
// it as YYYY-MM-DD. Anything else, including unknown month names, fails with
// an error wrapping ErrInvalidDate.
func NormalizeDate(s string, year int) (string, error) {
	t, err := parseMonthDay(s, year)
	if err != nil {
		return "", err
	}
	return t.Format(isoDate), nil
}

// NormalizeDateRange normalizes both ends of a date range. An end that falls
// before the start is moved into the following year. A bare day number as
// the end ("June 2 – 5") inherits the start month.
func NormalizeDateRange(start, end string, year int) (string, string, error) {
	s, err := parseMonthDay(start, year)
	if err != nil {
		return "", "", fmt.Errorf("start date: %w", err)
	}

	end = cleanDate(end)
	if _, convErr := strconv.Atoi(end); convErr == nil {
		end = s.Month().String() + " " + end
	}
	e, err := parseMonthDay(end, year)
	if err != nil {
		return "", "", fmt.Errorf("end date: %w", err)
	}
	if e.Before(s) {
		e = e.AddDate(1, 0, 0)
	}
	return s.Format(isoDate), e.Format(isoDate), nil
}

func parseMonthDay(s string, year int) (time.Time, error) {
	s = cleanDate(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	t, err := time.Parse("January 2 2006", fmt.Sprintf("%s %d", s, year))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// SeasonYearFromURL derives the season year from an article URL such as
// https://en.wikipedia.org/wiki/1975_Pacific_hurricane_season.
func SeasonYearFromURL(raw string) (int, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("parse season url: %w", err)
	}
	slug := path.Base(u.Path)
	m := seasonSlugRe.FindStringSubmatch(slug)
	if len(m) != 2 {
		return 0, fmt.Errorf("no season year in %q", slug)
	}
	return strconv.Atoi(m[1])
}
