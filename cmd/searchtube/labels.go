package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// stateLabel converts a machine state name into a display label,
// e.g. "pending_metadata" becomes "Pending Metadata".
func stateLabel(state string) string {
	return titleCaser.String(strings.ReplaceAll(state, "_", " "))
}

func truncate(value string, limit int) string {
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
