package video

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Normalize derives a canonical Record from raw metadata. now is the reference
// instant for every time-based field, which keeps the function deterministic.
func Normalize(raw RawRecord, now time.Time) Record {
	raw.ViewCount = nonNegative(raw.ViewCount)
	raw.LikeCount = nonNegative(raw.LikeCount)
	raw.CommentCount = nonNegative(raw.CommentCount)
	if raw.Tags == nil {
		raw.Tags = []string{}
	}

	rec := Record{
		RawRecord:      raw,
		CleanTitle:     CleanTitle(raw.Title),
		TitleLength:    utf8.RuneCountInString(raw.Title),
		TitleWordCount: len(strings.Fields(raw.Title)),
		HasQuestion:    strings.Contains(raw.Title, "?"),
		HasExclamation: strings.Contains(raw.Title, "!"),
		HasNumber:      strings.IndexFunc(raw.Title, unicode.IsDigit) >= 0,
		HasEmoji:       ContainsEmoji(raw.Title),
		TagCount:       len(raw.Tags),
	}

	for _, tag := range raw.Tags {
		rec.TotalTagLength += utf8.RuneCountInString(tag)
	}
	rec.AvgTagLength = float64(rec.TotalTagLength) / float64(max(1, rec.TagCount))

	rec.DurationSeconds = ParseDuration(raw.Duration)
	rec.IsShort = IsShort(raw)

	views := float64(max(1, raw.ViewCount))
	rec.LikeViewRatio = float64(raw.LikeCount) / views
	rec.CommentViewRatio = float64(raw.CommentCount) / views

	rec.DaysSincePublished = DaysSince(raw.PublishedAt, now)
	days := float64(rec.DaysSincePublished)
	rec.ViewsPerDay = float64(raw.ViewCount) / days
	rec.LikesPerDay = float64(raw.LikeCount) / days
	rec.CommentsPerDay = float64(raw.CommentCount) / days

	return rec
}

// DaysSince returns the whole days elapsed between published and now, never
// less than one. A zero published time counts as one day.
func DaysSince(published, now time.Time) int {
	if published.IsZero() {
		return 1
	}
	days := int(now.Sub(published) / (24 * time.Hour))
	return max(1, days)
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
