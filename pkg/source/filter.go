package source

import (
	"strings"

	"github.com/elonfeng/shortsradar/pkg/video"
)

// Filter matches peer records against include and exclude keyword lists.
// An empty include list matches everything not excluded.
type Filter struct {
	keywords []string
	exclude  []string
}

// NewFilter builds a case-insensitive keyword filter.
func NewFilter(keywords, exclude []string) *Filter {
	return &Filter{keywords: lowerAll(keywords), exclude: lowerAll(exclude)}
}

// Matches reports whether text passes the filter.
func (f *Filter) Matches(text string) bool {
	lower := strings.ToLower(text)

	for _, ex := range f.exclude {
		if strings.Contains(lower, ex) {
			return false
		}
	}

	if len(f.keywords) == 0 {
		return true
	}
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MatchesRecord applies the filter to a record's title, description and tags.
func (f *Filter) MatchesRecord(raw video.RawRecord) bool {
	text := raw.Title + " " + raw.Description + " " + strings.Join(raw.Tags, " ")
	return f.Matches(text)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out
}
