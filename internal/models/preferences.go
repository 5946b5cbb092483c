package models

import (
	"math"

	"adoptwatch/internal/codec"
)

const (
	DefaultAgePreference        = 50
	DefaultStagePriority        = 0
	DefaultSpecialNeedsPriority = 0
)

// FitPreferences are the personal-fit weights, each within 0..100.
type FitPreferences struct {
	AgePreference        int `json:"agePreference"`
	StagePriority        int `json:"stagePriority"`
	SpecialNeedsPriority int `json:"specialNeedsPriority"`
}

func DefaultPreferences() FitPreferences {
	return FitPreferences{
		AgePreference:        DefaultAgePreference,
		StagePriority:        DefaultStagePriority,
		SpecialNeedsPriority: DefaultSpecialNeedsPriority,
	}
}

var PreferencesCodec codec.Codec[FitPreferences] = codec.Func[FitPreferences](NormalizePreferences)

// NormalizePreferences never rejects an object: each weight is rounded and
// clamped, and a non-numeric weight falls back to its default.
func NormalizePreferences(raw any) (FitPreferences, bool) {
	p := DefaultPreferences()
	obj, ok := codec.Object(raw)
	if !ok {
		return p, false
	}
	p.AgePreference = weight(obj["agePreference"], DefaultAgePreference)
	p.StagePriority = weight(obj["stagePriority"], DefaultStagePriority)
	p.SpecialNeedsPriority = weight(obj["specialNeedsPriority"], DefaultSpecialNeedsPriority)
	return p, true
}

func weight(raw any, fallback int) int {
	f, ok := codec.Number(raw)
	if !ok {
		return fallback
	}
	return int(codec.Clamp(math.Round(f), 0, 100))
}

// Clamped bounds every weight to 0..100.
func (p FitPreferences) Clamped() FitPreferences {
	return FitPreferences{
		AgePreference:        codec.Clamp(p.AgePreference, 0, 100),
		StagePriority:        codec.Clamp(p.StagePriority, 0, 100),
		SpecialNeedsPriority: codec.Clamp(p.SpecialNeedsPriority, 0, 100),
	}
}
