package trend

import "github.com/elonfeng/shortsradar/pkg/video"

const (
	minCountAverage = 1.0
	minRatioAverage = 0.0001
)

// PeerAverages holds the arithmetic means of a peer set.
type PeerAverages struct {
	Views         float64 `json:"views"`
	Likes         float64 `json:"likes"`
	Comments      float64 `json:"comments"`
	LikeViewRatio float64 `json:"like_view_ratio"`
}

// Comparison expresses a subject's metrics as percentages of the peer
// averages, where 100 means equal to the average.
type Comparison struct {
	PeerCount        int          `json:"peer_count"`
	Averages         PeerAverages `json:"averages"`
	ViewsPct         float64      `json:"views_pct"`
	LikesPct         float64      `json:"likes_pct"`
	CommentsPct      float64      `json:"comments_pct"`
	LikeViewRatioPct float64      `json:"like_view_ratio_pct"`
}

// Averages computes peer averages. The like/view average is the mean of each
// peer's own ratio, with views floored at one. ok is false for an empty set.
func Averages(peers []video.RawRecord) (PeerAverages, bool) {
	if len(peers) == 0 {
		return PeerAverages{}, false
	}

	var avg PeerAverages
	for _, p := range peers {
		views := max(0, p.ViewCount)
		likes := max(0, p.LikeCount)
		avg.Views += float64(views)
		avg.Likes += float64(likes)
		avg.Comments += float64(max(0, p.CommentCount))
		avg.LikeViewRatio += float64(likes) / float64(max(1, views))
	}

	n := float64(len(peers))
	avg.Views /= n
	avg.Likes /= n
	avg.Comments /= n
	avg.LikeViewRatio /= n
	return avg, true
}

// Compare relates subject to the peer set. The boolean is false when there
// are no peers, in which case no comparison is available.
func Compare(subject video.Record, peers []video.RawRecord) (Comparison, bool) {
	avg, ok := Averages(peers)
	if !ok {
		return Comparison{}, false
	}

	return Comparison{
		PeerCount:        len(peers),
		Averages:         avg,
		ViewsPct:         percentOf(float64(subject.ViewCount), max(minCountAverage, avg.Views)),
		LikesPct:         percentOf(float64(subject.LikeCount), max(minCountAverage, avg.Likes)),
		CommentsPct:      percentOf(float64(subject.CommentCount), max(minCountAverage, avg.Comments)),
		LikeViewRatioPct: percentOf(subject.LikeViewRatio, max(minRatioAverage, avg.LikeViewRatio)),
	}, true
}

func percentOf(v, denom float64) float64 {
	return max(0, v) / denom * 100
}

// AboveAverage counts the metrics on which the subject beats the peers.
func (c Comparison) AboveAverage() int {
	n := 0
	for _, pct := range []float64{c.ViewsPct, c.LikesPct, c.CommentsPct, c.LikeViewRatioPct} {
		if pct > 100 {
			n++
		}
	}
	return n
}

// Framing is the overall reading of a comparison.
type Framing string

const (
	FramingPositive Framing = "positive"
	FramingMixed    Framing = "mixed"
	FramingBelow    Framing = "below_average"
)

var framingMessages = map[Framing]string{
	FramingPositive: "Your video is performing above average in multiple metrics compared to trending videos!",
	FramingMixed:    "Your video is performing above average in one metric, with room for improvement in others.",
	FramingBelow:    "Your video is currently performing below trending averages. See recommendations below.",
}

// Frame classifies a comparison by how many metrics exceed the average.
func (c Comparison) Frame() Framing {
	switch n := c.AboveAverage(); {
	case n >= 2:
		return FramingPositive
	case n == 1:
		return FramingMixed
	default:
		return FramingBelow
	}
}

// Message returns the sentence shown for a framing.
func (f Framing) Message() string {
	return framingMessages[f]
}

// NoComparisonMessage is shown when no peer set is available.
const NoComparisonMessage = "Could not retrieve trending data for comparison at this time."
