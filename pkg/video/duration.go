package video

import (
	"regexp"
	"strconv"
	"strings"
)

// isoDuration matches the PT[nH][nM][nS] subset of ISO 8601 durations.
var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration returns the number of seconds in an ISO 8601 duration such as
// "PT1M30S". Anything it cannot read counts as zero seconds.
func ParseDuration(duration string) int {
	seconds, _ := parseDuration(duration)
	return seconds
}

// parseDuration also reports whether duration matched the PT form at all.
func parseDuration(duration string) (int, bool) {
	matches := isoDuration.FindStringSubmatch(duration)
	if matches == nil {
		return 0, false
	}

	var total int
	for i, unit := range []int{3600, 60, 1} {
		if matches[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(matches[i+1])
		if err != nil {
			return 0, false
		}
		total += n * unit
	}
	return total, true
}

// ShortMaxSeconds is the longest duration still classified as a short.
const ShortMaxSeconds = 60

const shortsTag = "#shorts"

// IsShort reports whether a record looks like a short: a readable duration of
// at most a minute, or #shorts in its title or description. Durations outside
// the PT form (live streams report "P0D") fall through to the tag check.
func IsShort(raw RawRecord) bool {
	if seconds, ok := parseDuration(raw.Duration); ok && seconds <= ShortMaxSeconds {
		return true
	}
	return HasShortsTag(raw.Title) || HasShortsTag(raw.Description)
}

// HasShortsTag reports whether text carries the literal #shorts tag, ignoring case.
func HasShortsTag(text string) bool {
	return strings.Contains(strings.ToLower(text), shortsTag)
}
