package trend

import "github.com/elonfeng/shortsradar/pkg/video"

// WellOptimized is shown when Recommend has nothing to suggest.
const WellOptimized = "Your video is well optimized! Continue with your current strategy."

const (
	adviceLongerTitle  = "Consider using a slightly longer title (30-50 characters) that includes trending keywords to improve searchability."
	adviceShorterTitle = "Your title is quite long. Consider a more concise title (30-50 characters) that still conveys the key message."
	adviceMoreTags     = "Add more relevant tags (aim for 8-10) to improve discoverability."
	adviceHooks        = "Your like-to-view ratio is lower than optimal. Try creating more engaging hooks and calls to action."
	adviceComments     = "Encourage more comments by asking questions or creating content that sparks discussion."
	adviceStudyTrends  = "Consider trends analysis: Study currently viral Shorts for inspiration on content and style."
	adviceImproveHook  = "Improve hook: The first 3 seconds are crucial for retention - make them more compelling."
	adviceConsistency  = "Consistency is key: Regular posting can help build momentum and improve algorithmic favor."
)

// Recommend lists improvement suggestions for an analyzed video.
func Recommend(rec video.Record, res Result) []string {
	out := []string{}

	switch {
	case rec.TitleLength < 30:
		out = append(out, adviceLongerTitle)
	case rec.TitleLength > 60:
		out = append(out, adviceShorterTitle)
	}

	if rec.TagCount < 5 {
		out = append(out, adviceMoreTags)
	}
	if rec.LikeViewRatio < 0.05 {
		out = append(out, adviceHooks)
	}
	if rec.CommentViewRatio*1000 < 2 {
		out = append(out, adviceComments)
	}

	switch {
	case res.Score < 0.3:
		out = append(out, adviceStudyTrends, adviceImproveHook)
	case res.Score < 0.7:
		out = append(out, adviceConsistency)
	}
	return out
}
