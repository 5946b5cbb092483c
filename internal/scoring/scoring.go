// Package scoring computes the personal-fit score used to reorder listings.
package scoring

import (
	"math"
	"slices"
	"strings"

	"adoptwatch/internal/models"
)

// Neutral is the score every listing gets when no axis carries weight.
const Neutral = 50

// maxAgeMonths is the age at which the age axis saturates.
const maxAgeMonths = 120

// Axis is one weighted sub-score.
type Axis struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Breakdown is a listing's total with the sub-scores it was built from.
type Breakdown struct {
	Total        int  `json:"total"`
	Age          Axis `json:"age"`
	Stage        Axis `json:"stage"`
	SpecialNeeds Axis `json:"specialNeeds"`
}

// Score maps a listing and preferences to 0..100. It has no side effects.
func Score(l models.Listing, prefs models.FitPreferences) Breakdown {
	prefs = prefs.Clamped()
	b := Breakdown{
		Age:          ageAxis(l.Age, prefs.AgePreference),
		Stage:        stageAxis(l.Stage, prefs.StagePriority),
		SpecialNeeds: specialNeedsAxis(l, prefs.SpecialNeedsPriority),
	}
	axes := []Axis{b.Age, b.Stage, b.SpecialNeeds}
	var sum, weights float64
	for _, a := range axes {
		sum += a.Score * a.Weight
		weights += a.Weight
	}
	if weights == 0 {
		b.Total = Neutral
		return b
	}
	b.Total = int(min(max(math.Round(sum/weights), 0), 100))
	return b
}

func ageAxis(ageMonths, preference int) Axis {
	normalized := min(float64(max(ageMonths, 0))/maxAgeMonths, 1) * 100
	bias := float64(preference - 50)
	direction := normalized / 100
	if bias < 0 {
		direction = 1 - direction
	}
	weight := math.Abs(bias) / 50
	return Axis{Score: 50 + (direction*100-50)*weight, Weight: weight}
}

func stageAxis(stage string, priority int) Axis {
	weight := float64(priority) / 100
	return Axis{Score: 50 + (StageScore(stage)-50)*weight, Weight: weight}
}

func specialNeedsAxis(l models.Listing, priority int) Axis {
	base := 100.0
	if IsSpecialNeeds(l) {
		base = 30
	}
	weight := float64(priority) / 100
	return Axis{Score: 50 + (base-50)*weight, Weight: weight}
}

// StageScore rates an adoption stage label by case-insensitive substring.
func StageScore(stage string) float64 {
	s := strings.ToLower(stage)
	switch {
	case strings.Contains(s, "available"):
		return 100
	case strings.Contains(s, "pending"), strings.Contains(s, "hold"):
		return 75
	case strings.Contains(s, "foster"):
		return 60
	case strings.Contains(s, "adopted"):
		return 0
	default:
		return 50
	}
}

// IsSpecialNeeds reports an affirmative special-needs field, or a stage
// label mentioning needs. The stage match is broad: "Needs Foster" counts.
func IsSpecialNeeds(l models.Listing) bool {
	switch strings.ToLower(strings.TrimSpace(l.SpecialNeeds)) {
	case "yes", "true", "1":
		return true
	}
	stage := strings.ToLower(l.Stage)
	return strings.Contains(stage, "special need") || strings.Contains(stage, "needs")
}

// Ranked pairs a listing with its breakdown.
type Ranked struct {
	Listing models.Listing
	Score   Breakdown
}

// Rank scores every listing and stable-sorts by total, highest first.
// Nothing is ever filtered out.
func Rank(listings []models.Listing, prefs models.FitPreferences) []Ranked {
	out := make([]Ranked, len(listings))
	for i, l := range listings {
		out[i] = Ranked{Listing: l, Score: Score(l, prefs)}
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		return b.Score.Total - a.Score.Total
	})
	return out
}
