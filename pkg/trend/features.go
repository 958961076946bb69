package trend

import "github.com/elonfeng/shortsradar/pkg/video"

const (
	maxViewsPerDay = 1_000_000
	maxDaysLive    = 30
)

// Features is the fixed, bounded input to a Scorer.
type Features struct {
	TitleLength        float64 `json:"title_length"`
	TitleWordCount     float64 `json:"title_word_count"`
	HasQuestion        float64 `json:"has_question_in_title"`
	HasExclamation     float64 `json:"has_exclamation_in_title"`
	HasNumber          float64 `json:"has_number_in_title"`
	HasEmoji           float64 `json:"has_emoji_in_title"`
	TagCount           float64 `json:"tag_count"`
	AvgTagLength       float64 `json:"avg_tag_length"`
	DurationSeconds    float64 `json:"duration_seconds"`
	LikeViewRatio      float64 `json:"like_view_ratio"`
	CommentViewRatio   float64 `json:"comment_view_ratio"`
	ViewsPerDay        float64 `json:"views_per_day"`
	DaysSincePublished float64 `json:"days_since_published"`
}

// Extract projects a canonical record onto the feature vector.
func Extract(rec video.Record) Features {
	return Features{
		TitleLength:        float64(rec.TitleLength),
		TitleWordCount:     float64(rec.TitleWordCount),
		HasQuestion:        flag(rec.HasQuestion),
		HasExclamation:     flag(rec.HasExclamation),
		HasNumber:          flag(rec.HasNumber),
		HasEmoji:           flag(rec.HasEmoji),
		TagCount:           float64(rec.TagCount),
		AvgTagLength:       rec.AvgTagLength,
		DurationSeconds:    float64(rec.DurationSeconds),
		LikeViewRatio:      rec.LikeViewRatio,
		CommentViewRatio:   rec.CommentViewRatio,
		ViewsPerDay:        min(rec.ViewsPerDay, maxViewsPerDay),
		DaysSincePublished: float64(min(rec.DaysSincePublished, maxDaysLive)),
	}
}

// Map returns the features keyed by name.
func (f Features) Map() map[string]float64 {
	return map[string]float64{
		"title_length":             f.TitleLength,
		"title_word_count":         f.TitleWordCount,
		"has_question_in_title":    f.HasQuestion,
		"has_exclamation_in_title": f.HasExclamation,
		"has_number_in_title":      f.HasNumber,
		"has_emoji_in_title":       f.HasEmoji,
		"tag_count":                f.TagCount,
		"avg_tag_length":           f.AvgTagLength,
		"duration_seconds":         f.DurationSeconds,
		"like_view_ratio":          f.LikeViewRatio,
		"comment_view_ratio":       f.CommentViewRatio,
		"views_per_day":            f.ViewsPerDay,
		"days_since_published":     f.DaysSincePublished,
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
