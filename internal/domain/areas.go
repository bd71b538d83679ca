package domain

import "strings"

// JoinAreas joins affected areas into a single ", "-separated field.
// Blank entries are dropped; a single area is returned unchanged.
func JoinAreas(areas []string) string {
	kept := make([]string, 0, len(areas))
	for _, a := range areas {
		if a = strings.TrimSpace(a); a != "" {
			kept = append(kept, a)
		}
	}
	return strings.Join(kept, ", ")
}
