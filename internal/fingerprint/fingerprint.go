// Package fingerprint derives the deduplication key that makes two
// submissions of the same movement collapse into one record. The key is
// date-granular on purpose: two trips for the same soldier over the same
// route on the same calendar day are treated as one logical movement.
package fingerprint

import (
	"strings"
	"time"
)

// Compute builds the dedup key from a soldier identifier, a start timestamp
// (RFC 3339 or bare YYYY-MM-DD), and the origin/destination. Only the
// calendar-date portion of startTime participates; origin and destination
// are trimmed and lowercased. The result is stable for identical inputs.
func Compute(soldierID, startTime, from, to string) string {
	dateStr, _, _ := strings.Cut(startTime, "T")

	normalizedFrom := strings.ToLower(strings.TrimSpace(from))
	normalizedTo := strings.ToLower(strings.TrimSpace(to))

	return soldierID + "|" + dateStr + "|" + normalizedFrom + "|" + normalizedTo
}

// ComputeAt is Compute for callers holding a parsed time.Time.
func ComputeAt(soldierID string, start time.Time, from, to string) string {
	return Compute(soldierID, start.Format("2006-01-02"), from, to)
}
