// Package video turns provider metadata into canonical records that are safe to score.
package video

import "time"

// RawRecord is the metadata a provider supplies for one video.
type RawRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ChannelTitle string    `json:"channel_title"`
	Tags         []string  `json:"tags"`
	PublishedAt  time.Time `json:"published_at"`
	Duration     string    `json:"duration"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
}

// Record is a RawRecord augmented with derived fields.
type Record struct {
	RawRecord

	CleanTitle     string `json:"clean_title"`
	TitleLength    int    `json:"title_length"`
	TitleWordCount int    `json:"title_word_count"`
	HasQuestion    bool   `json:"has_question_in_title"`
	HasExclamation bool   `json:"has_exclamation_in_title"`
	HasNumber      bool   `json:"has_number_in_title"`
	HasEmoji       bool   `json:"has_emoji_in_title"`

	TagCount       int     `json:"tag_count"`
	TotalTagLength int     `json:"total_tag_length"`
	AvgTagLength   float64 `json:"avg_tag_length"`

	DurationSeconds int  `json:"duration_seconds"`
	IsShort         bool `json:"is_short"`

	LikeViewRatio    float64 `json:"like_view_ratio"`
	CommentViewRatio float64 `json:"comment_view_ratio"`

	DaysSincePublished int     `json:"days_since_published"`
	ViewsPerDay        float64 `json:"views_per_day"`
	LikesPerDay        float64 `json:"likes_per_day"`
	CommentsPerDay     float64 `json:"comments_per_day"`
}
