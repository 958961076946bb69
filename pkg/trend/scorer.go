package trend

import "sort"

// Scorer turns a feature vector into a viral-potential result. The rule
// table below is one implementation; a learned model can sit behind the
// same interface.
type Scorer interface {
	Score(f Features) Result
}

// Tier names the explanation band a score falls into.
type Tier string

const (
	TierHigh     Tier = "high"
	TierModerate Tier = "moderate"
	TierLow      Tier = "low"
)

const (
	baseScore = 0.50
	minScore  = 0.10
	maxScore  = 0.99

	maxKeyFactors = 3

	// NoFactors is reported when no rule contributed positively.
	NoFactors = "No standout factors detected"
)

var explanations = map[Tier]string{
	TierHigh:     "This video shows high viral potential! It has strong engagement metrics and follows best practices.",
	TierModerate: "This video has moderate viral potential with decent engagement. Some aspects could be improved.",
	TierLow:      "This video has lower viral potential. Consider improving key factors to boost engagement.",
}

// Explanation returns the fixed prose for a tier.
func Explanation(t Tier) string {
	return explanations[t]
}

// Result is the outcome of scoring one video.
type Result struct {
	Score       float64  `json:"score"`
	Tier        Tier     `json:"tier"`
	Explanation string   `json:"explanation"`
	KeyFactors  []string `json:"key_factors"`
	Factors     []string `json:"factors"`
}

type rule struct {
	match  func(f Features) bool
	delta  float64
	factor string
}

// rules are evaluated in order; every match adjusts the score. Only
// positive rules carry a factor.
var rules = []rule{
	{
		match:  func(f Features) bool { return f.TitleLength >= 30 && f.TitleLength <= 50 },
		delta:  0.05,
		factor: "Optimal title length (30-50 characters)",
	},
	{match: func(f Features) bool { return f.TitleLength < 20 }, delta: -0.05},
	{
		match:  func(f Features) bool { return f.HasEmoji != 0 },
		delta:  0.03,
		factor: "Title contains emoji which can increase engagement",
	},
	{
		match:  func(f Features) bool { return f.HasQuestion != 0 },
		delta:  0.03,
		factor: "Title contains a question which can drive curiosity",
	},
	{
		match:  func(f Features) bool { return f.HasNumber != 0 },
		delta:  0.02,
		factor: "Title contains numbers which can increase click-through rate",
	},
	{
		match:  func(f Features) bool { return f.TagCount >= 8 },
		delta:  0.05,
		factor: "Good number of tags (8+) for discoverability",
	},
	{match: func(f Features) bool { return f.TagCount <= 3 }, delta: -0.05},
	{
		match:  func(f Features) bool { return f.DurationSeconds >= 15 && f.DurationSeconds <= 45 },
		delta:  0.10,
		factor: "Optimal video length (15-45 seconds) for viewer retention",
	},
	{match: func(f Features) bool { return f.DurationSeconds > 55 }, delta: -0.05},
	{
		match:  func(f Features) bool { return f.LikeViewRatio > 0.10 },
		delta:  0.15,
		factor: "Excellent like-to-view ratio (>10%)",
	},
	{
		match:  func(f Features) bool { return f.LikeViewRatio > 0.05 && !(f.LikeViewRatio > 0.10) },
		delta:  0.08,
		factor: "Good like-to-view ratio (>5%)",
	},
	{
		match:  func(f Features) bool { return f.CommentViewRatio > 0.01 },
		delta:  0.10,
		factor: "High comment engagement",
	},
	{
		match:  func(f Features) bool { return f.ViewsPerDay > 10000 },
		delta:  0.15,
		factor: "Strong daily view velocity",
	},
	{
		match:  func(f Features) bool { return f.ViewsPerDay > 1000 && !(f.ViewsPerDay > 10000) },
		delta:  0.05,
		factor: "Good daily view velocity",
	},
}

// RuleScorer scores with a fixed, ordered rule table.
type RuleScorer struct{}

// NewRuleScorer creates the default rule-based scorer.
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

// Score applies every rule to f and clamps the total into [0.10, 0.99].
func (RuleScorer) Score(f Features) Result {
	score := baseScore
	factors := []string{}

	for _, r := range rules {
		if !r.match(f) {
			continue
		}
		score += r.delta
		if r.delta > 0 {
			factors = append(factors, r.factor)
		}
	}

	score = max(minScore, min(score, maxScore))
	tier := tierFor(score)

	return Result{
		Score:       score,
		Tier:        tier,
		Explanation: Explanation(tier),
		KeyFactors:  keyFactors(factors),
		Factors:     factors,
	}
}

func tierFor(score float64) Tier {
	switch {
	case score > 0.7:
		return TierHigh
	case score > 0.5:
		return TierModerate
	default:
		return TierLow
	}
}

// keyFactors picks the longest factor descriptions, keeping evaluation
// order among equal lengths.
func keyFactors(factors []string) []string {
	if len(factors) == 0 {
		return []string{NoFactors}
	}

	ranked := make([]string, len(factors))
	copy(ranked, factors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i]) > len(ranked[j])
	})

	if len(ranked) > maxKeyFactors {
		ranked = ranked[:maxKeyFactors]
	}
	return ranked
}
