package inference

import (
	"math"

	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

// Classification is the display side of a predicted magnitude.
type Classification struct {
	Tier    models.SeverityTier
	Message string
	Style   models.AlertStyle
	Icon    string
}

type band struct {
	below float64
	Classification
}

// Intervals are half-open [lower, below) and checked in ascending order.
// Tier names and messages are offset by one step; keep both as they are.
var bands = []band{
	{3.0, Classification{models.SeverityMicro, "Minor earthquake - Usually not felt", models.AlertStyleInfo, "🟢"}},
	{4.0, Classification{models.SeverityMinor, "Light earthquake - Often felt but rarely causes damage", models.AlertStyleInfo, "🟡"}},
	{5.0, Classification{models.SeverityLight, "Moderate earthquake - Can cause minor damage", models.AlertStyleWarning, "🟠"}},
	{6.0, Classification{models.SeverityModerate, "Strong earthquake - Can cause damage", models.AlertStyleWarning, "🔴"}},
	{math.Inf(1), Classification{models.SeverityMajor, "Major earthquake - Can cause serious damage", models.AlertStyleError, "🆘"}},
}

// Classify maps a magnitude to its severity tier. Every input maps to
// exactly one tier; anything not below 6.0 (including +Inf) is Major.
func Classify(m float64) Classification {
	for _, b := range bands {
		if m < b.below {
			return b.Classification
		}
	}
	return bands[len(bands)-1].Classification
}
