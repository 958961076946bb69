package analysis

import (
	"time"

	"github.com/elonfeng/shortsradar/pkg/trend"
	"github.com/elonfeng/shortsradar/pkg/video"
)

// Report is everything produced by one analysis.
type Report struct {
	Video           video.Record      `json:"video"`
	Features        trend.Features    `json:"features"`
	Result          trend.Result      `json:"result"`
	Comparison      *trend.Comparison `json:"comparison"`
	Framing         trend.Framing     `json:"framing,omitempty"`
	ComparisonNote  string            `json:"comparison_note"`
	Recommendations []string          `json:"recommendations"`
	AnalyzedAt      time.Time         `json:"analyzed_at"`
}

// RecommendationsOrDefault returns the recommendations, or the single
// well-optimized message when there are none.
func (r *Report) RecommendationsOrDefault() []string {
	if len(r.Recommendations) == 0 {
		return []string{trend.WellOptimized}
	}
	return r.Recommendations
}
