package wikipedia

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

const (
	// headingSelector matches the wrapper of a level-3 heading (one storm).
	headingSelector = "div.mw-heading.mw-heading3"

	// blockEndSelector ends a heading block: the next level-2 or level-3 heading.
	blockEndSelector = "div.mw-heading2, div.mw-heading3"
)

// Extract walks the page once and returns one record per level-3 heading in
// page order, each carrying its own name, dates, and description. A nil page
// fails with domain.ErrNoContent.
func Extract(page *Page) ([]domain.StormRecord, error) {
	if page == nil || page.doc == nil {
		return nil, fmt.Errorf("extract storms: %w", domain.ErrNoContent)
	}

	headings := page.doc.Find(headingSelector)
	if headings.Length() == 0 {
		return nil, fmt.Errorf("extract storms from %s: %w: no %q elements", page.URL, domain.ErrUnexpectedLayout, headingSelector)
	}

	records := make([]domain.StormRecord, 0, headings.Length())
	headings.Each(func(_ int, heading *goquery.Selection) {
		records = append(records, extractBlock(heading))
	})
	return records, nil
}

func extractBlock(heading *goquery.Selection) domain.StormRecord {
	name := strings.TrimSpace(heading.Find("h3").First().Text())
	if name == "" {
		name = strings.TrimSpace(heading.Text())
	}

	var (
		paragraphs []string
		dateCell   string
		hasInfobox bool
	)
	heading.NextAll().EachWithBreak(func(_ int, sibling *goquery.Selection) bool {
		if sibling.Is(blockEndSelector) {
			return false
		}
		if goquery.NodeName(sibling) == "p" {
			paragraphs = append(paragraphs, strings.TrimSpace(sibling.Text()))
			return true
		}
		if !hasInfobox {
			if box := findInfobox(sibling); box != nil {
				hasInfobox = true
				dateCell = box.Find("td.infobox-data").First().Text()
			}
		}
		return true
	})

	start, end := domain.SplitDateRange(dateCell)
	return domain.StormRecord{
		Name:        name,
		StartDate:   start,
		EndDate:     end,
		Description: strings.Join(paragraphs, ""),
		Kind:        domain.ClassifySection(name, start),
	}
}

// findInfobox returns the first storm infobox at or below sel. Storm panels
// carry exactly the class "infobox"; tables with additional classes (season
// summary, navboxes) are ignored.
func findInfobox(sel *goquery.Selection) *goquery.Selection {
	candidates := sel.Filter("table").AddSelection(sel.Find("table"))
	var found *goquery.Selection
	candidates.EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if isExactInfobox(table) {
			found = table
			return false
		}
		return true
	})
	return found
}

func isExactInfobox(table *goquery.Selection) bool {
	classes := strings.Fields(table.AttrOr("class", ""))
	return len(classes) == 1 && classes[0] == "infobox"
}
