package artifact

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrShapeMismatch is returned when the input length differs from n_features.
var ErrShapeMismatch = errors.New("feature shape mismatch")

type regressor interface {
	eval(x []float64) float64
}

// Model is a compiled artifact. It is never modified after Compile returns.
type Model struct {
	info      Info
	regressor regressor
}

func (m *Model) Info() Info {
	info := m.info
	info.FeatureNames = slices.Clone(m.info.FeatureNames)
	return info
}

func (m *Model) Predict(_ context.Context, features []float64) (float64, error) {
	if len(features) != m.info.NFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrShapeMismatch, len(features), m.info.NFeatures)
	}
	return m.regressor.eval(features), nil
}

// Compatible checks the model against the feature layout a caller will feed it.
func (i Info) Compatible(names []string) error {
	if i.NFeatures != len(names) {
		return fmt.Errorf("%w: model expects %d features, inputs provide %d", ErrShapeMismatch, i.NFeatures, len(names))
	}
	if len(i.FeatureNames) > 0 && !slices.Equal(i.FeatureNames, names) {
		return fmt.Errorf("feature order mismatch: model %v, inputs %v", i.FeatureNames, names)
	}
	return nil
}

// Compile validates a and turns it into a ready Model.
func Compile(a *Artifact) (*Model, error) {
	if a.NFeatures <= 0 {
		return nil, fmt.Errorf("n_features must be positive, got %d", a.NFeatures)
	}
	if len(a.FeatureNames) > 0 && len(a.FeatureNames) != a.NFeatures {
		return nil, fmt.Errorf("feature_names has %d entries, n_features is %d", len(a.FeatureNames), a.NFeatures)
	}

	info := Info{
		Name:         a.Name,
		Version:      a.Version,
		Kind:         a.Kind,
		NFeatures:    a.NFeatures,
		FeatureNames: slices.Clone(a.FeatureNames),
	}

	var (
		r   regressor
		err error
	)
	switch a.Kind {
	case KindLinear:
		r, err = compileLinear(a.Linear, a.NFeatures)
	case KindTreeEnsemble:
		r, err = compileEnsemble(a.Ensemble, a.NFeatures)
		if a.Ensemble != nil {
			info.Trees = len(a.Ensemble.Trees)
		}
	default:
		return nil, fmt.Errorf("unknown model kind %q", a.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Model{info: info, regressor: r}, nil
}
