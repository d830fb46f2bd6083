package gamelog

import "strings"

const (
	// DefaultMarker is the substring identifying a server-connection event line
	DefaultMarker = "TravelConnection"

	// LoopbackLiteral is the local-loopback address used by the client while
	// no real server connection exists. Marker lines carrying it are noise.
	LoopbackLiteral = "127.0.0.1"
)

// ExcludeFunc reports whether a marker line must be discarded
type ExcludeFunc func(line string) bool

// ExcludeLoopback discards marker lines whose address field is the
// loopback literal
func ExcludeLoopback(line string) bool {
	return strings.Contains(line, "["+LoopbackLiteral)
}

// DefaultExclusions returns the built-in exclusion predicates
func DefaultExclusions() []ExcludeFunc {
	return []ExcludeFunc{ExcludeLoopback}
}

// FindLatest scans the trailing budget lines of the log, newest first, and
// returns the first line containing marker that no exclusion rejects.
// Excluded matches are skipped entirely, never counted as the latest.
// Lines older than the tail window are never inspected, even if they would
// match; bounding the scan keeps polls cheap on multi-megabyte logs.
//
// The second return value is false when no qualifying line exists in the
// window.
func FindLatest(lines []string, budget int, marker string, exclusions []ExcludeFunc) (string, bool) {
	if budget <= 0 || len(lines) == 0 {
		return "", false
	}

	start := 0
	if len(lines) > budget {
		start = len(lines) - budget
	}

	for i := len(lines) - 1; i >= start; i-- {
		line := lines[i]
		if !strings.Contains(line, marker) {
			continue
		}
		if excluded(line, exclusions) {
			continue
		}
		return line, true
	}

	return "", false
}

func excluded(line string, exclusions []ExcludeFunc) bool {
	for _, ex := range exclusions {
		if ex(line) {
			return true
		}
	}
	return false
}
