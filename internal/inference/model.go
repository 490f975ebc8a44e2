package inference

import (
	"context"
	"errors"
	"fmt"
)

// Model is a loaded regressor. Implementations are immutable after
// construction and safe for concurrent use.
type Model interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(ctx context.Context, features []float64) (float64, error)

func (f ModelFunc) Predict(ctx context.Context, features []float64) (float64, error) {
	return f(ctx, features)
}

// InferenceError wraps any failure that happened while running the model.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// IsInferenceError reports whether err is (or wraps) an *InferenceError.
func IsInferenceError(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}
