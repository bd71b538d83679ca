package domain

import (
	"fmt"
	"strings"
)

// SectionKind classifies a level-3 heading block.
type SectionKind int

const (
	// SectionStorm is a storm with a dated infobox.
	SectionStorm SectionKind = iota
	// SectionTrailing is a named non-storm section such as "Storm names".
	SectionTrailing
	// SectionMissingInfobox is a heading without a dated infobox.
	SectionMissingInfobox
)

func (k SectionKind) String() string {
	switch k {
	case SectionStorm:
		return "storm"
	case SectionTrailing:
		return "trailing_section"
	case SectionMissingInfobox:
		return "missing_infobox"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k SectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *SectionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "storm":
		*k = SectionStorm
	case "trailing_section":
		*k = SectionTrailing
	case "missing_infobox":
		*k = SectionMissingInfobox
	default:
		return fmt.Errorf("unknown section kind %q", text)
	}
	return nil
}

// trailingSections lists level-3 headings that season articles place after
// (or between) storm blocks and that never describe a storm. Keys are lower case.
var trailingSections = map[string]struct{}{
	"storm names":    {},
	"retirement":     {},
	"season effects": {},
	"other systems":  {},
	"see also":       {},
	"notes":          {},
	"references":     {},
	"external links": {},
}

// ClassifySection decides whether a heading block is a storm. Named trailing
// sections win over infobox presence; otherwise a block is a storm only when
// its infobox yielded a start date.
func ClassifySection(name, startDate string) SectionKind {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := trailingSections[key]; ok {
		return SectionTrailing
	}
	if strings.TrimSpace(startDate) == "" {
		return SectionMissingInfobox
	}
	return SectionStorm
}
