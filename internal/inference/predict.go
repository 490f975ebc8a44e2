// Package inference runs the magnitude model and classifies its output.
package inference

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

var errNoModel = errors.New("no model loaded")

// Predict runs model on v and classifies the result. Any model failure is
// returned as *InferenceError; there is no retry and no partial result.
func Predict(ctx context.Context, model Model, v models.FeatureVector) (models.PredictionResult, error) {
	m, err := invoke(ctx, model, v)
	if err != nil {
		return models.PredictionResult{}, &InferenceError{Err: err}
	}

	c := Classify(m)
	return models.PredictionResult{
		Vector:    v,
		Magnitude: m,
		Tier:      c.Tier,
		Message:   c.Message,
		Style:     c.Style,
		Icon:      c.Icon,
	}, nil
}

func invoke(ctx context.Context, model Model, v models.FeatureVector) (m float64, err error) {
	if model == nil {
		return 0, errNoModel
	}

	defer func() {
		if r := recover(); r != nil {
			m, err = 0, fmt.Errorf("model panicked: %v", r)
		}
	}()

	m, err = model.Predict(ctx, v.Values())
	if err != nil {
		return 0, err
	}
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0, fmt.Errorf("model returned non-finite magnitude %v", m)
	}
	return m, nil
}
