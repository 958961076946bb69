package link

import (
	"fmt"
	"regexp"
)

// Link shapes accepted for a short video. The id is always the second group.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/shorts/([a-zA-Z0-9_-]{11})(\?.*)?$`),
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})(&.*)?$`),
	regexp.MustCompile(`^https?://(www\.)?youtu\.be/([a-zA-Z0-9_-]{11})(\?.*)?$`),
}

// IsValid reports whether text is a supported video link.
func IsValid(text string) bool {
	_, ok := ExtractID(text)
	return ok
}

// ExtractID returns the 11-character video identifier from a supported link.
func ExtractID(text string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[2], true
		}
	}
	return "", false
}

// ShortsURL returns the canonical shorts link for an identifier.
func ShortsURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/shorts/%s", id)
}

// WatchURL returns the canonical watch link for an identifier.
func WatchURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}
