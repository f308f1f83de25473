package app

import "strings"

// Spans carry the statement for debugging, not archival. A bulk stat
// insert can run to kilobytes, so the traced form is capped.
const maxTracedQueryLen = 512

func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) > maxTracedQueryLen {
		return normalized[:maxTracedQueryLen] + "..."
	}
	return normalized
}
