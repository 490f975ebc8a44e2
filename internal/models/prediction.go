package models

import (
	"fmt"
	"time"
)

// PredictionResult is built fresh for every prediction and never mutated.
type PredictionResult struct {
	ID        string
	Vector    FeatureVector
	Magnitude float64 // full precision, round only for display
	Tier      SeverityTier
	Message   string
	Style     AlertStyle
	Icon      string
	CreatedAt time.Time
}

// DisplayMagnitude formats the magnitude with two decimals.
func (r PredictionResult) DisplayMagnitude() string {
	return fmt.Sprintf("%.2f", r.Magnitude)
}

// Headline is the banner line shown above the advisory message.
func (r PredictionResult) Headline() string {
	return fmt.Sprintf("%s Predicted Magnitude: %s", r.Icon, r.DisplayMagnitude())
}

type ErrorKind string

const (
	ErrorKindInvalidInput         ErrorKind = "invalid_input"
	ErrorKindUnknownMagnitudeType ErrorKind = "unknown_magnitude_type"
	ErrorKindInference            ErrorKind = "inference_error"
)

// Failure is the user-facing side of a failed prediction.
type Failure struct {
	Kind    ErrorKind
	Message string
	Hint    string
}

// Outcome holds exactly one of Result or Failure.
type Outcome struct {
	Fields  Fields
	Result  *PredictionResult
	Failure *Failure
}

func (o Outcome) OK() bool {
	return o.Result != nil
}

// PredictionRecord is a stored prediction, used by the optional history.
type PredictionRecord struct {
	ID        string
	Fields    Fields
	Vector    FeatureVector
	Magnitude float64
	Tier      SeverityTier
	ModelName string
	CreatedAt time.Time
}
