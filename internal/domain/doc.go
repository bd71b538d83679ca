// Package domain models storm records scraped from a Wikipedia storm-season
// article and the structured fields derived from them.
//
// # Data Source
//
// Season articles live at https://en.wikipedia.org/wiki/<year>_<basin>_season,
// e.g. "1975_Pacific_hurricane_season". The article's "Systems" section holds
// one level-3 heading per storm, followed by an infobox and prose.
//
// # Wikipedia Page Conventions
//
// Heading block:
//
//	<div class="mw-heading mw-heading3"><h3>Hurricane Agatha</h3></div>
//	<table class="infobox">...</table>
//	<p>...</p> <p>...</p>
//	<div class="mw-heading mw-heading3">...  (next block)
//
// Paragraphs belonging to a block are the <p> siblings between its heading
// and the next level-2 or level-3 heading. Their trimmed text is concatenated
// without a separator.
//
// Infobox date cell:
//
//	"June 2\u00a0– June 5"  (NBSP, en dash, space)
//	Single-day systems carry one date and no dash.
//
// Only tables whose class attribute is exactly "infobox" are storm panels;
// the season summary uses "infobox" plus other classes and is ignored.
//
// Trailing sections:
//
//	Some level-3 headings are not storms ("Storm names", "Retirement",
//	"Season effects"). They are classified by name rather than by position,
//	see [ClassifySection]. A heading with no dated infobox is classified as
//	[SectionMissingInfobox].
//
// # Date Normalization
//
// Infobox dates omit the year ("June 5"). The season year is taken from
// configuration or the article slug ([SeasonYearFromURL]) and output dates
// use YYYY-MM-DD. A range whose end precedes its start (e.g. "December 30 –
// January 2") rolls the end date into the following year.
//
// # ID Generation
//
// Report IDs are deterministic SHA-256 hashes of year|name so downstream
// consumers can upsert reports idempotently when a season is re-scraped.
// See [reportID].
package domain
