package models

// SeverityTier buckets a predicted magnitude for display.
type SeverityTier string

const (
	SeverityMicro    SeverityTier = "Micro"
	SeverityMinor    SeverityTier = "Minor"
	SeverityLight    SeverityTier = "Light"
	SeverityModerate SeverityTier = "Moderate"
	SeverityStrong   SeverityTier = "Strong"
	SeverityMajor    SeverityTier = "Major"
)

// AlertStyle tells the presentation layer how prominently to show a result.
type AlertStyle string

const (
	AlertStyleInfo    AlertStyle = "info"
	AlertStyleWarning AlertStyle = "warning"
	AlertStyleError   AlertStyle = "error"
)

// ScaleEntry is one row of the magnitude reference table.
type ScaleEntry struct {
	Range       string       `json:"range"`
	Tier        SeverityTier `json:"tier"`
	Description string       `json:"description"`
}

// ReferenceScale is the static table shown next to every prediction.
var ReferenceScale = []ScaleEntry{
	{Range: "< 3.0", Tier: SeverityMicro, Description: "Not felt"},
	{Range: "3.0 - 3.9", Tier: SeverityMinor, Description: "Often felt, rarely causes damage"},
	{Range: "4.0 - 4.9", Tier: SeverityLight, Description: "Noticeable shaking, minor damage"},
	{Range: "5.0 - 5.9", Tier: SeverityModerate, Description: "Can cause damage to buildings"},
	{Range: "6.0 - 6.9", Tier: SeverityStrong, Description: "Can cause damage over wide areas"},
	{Range: "7.0+", Tier: SeverityMajor, Description: "Can cause serious damage over large areas"},
}
