package artifact

import (
	"errors"
	"fmt"
	"slices"
)

type linear struct {
	intercept float64
	coef      []float64
}

func compileLinear(p *LinearParams, nFeatures int) (*linear, error) {
	if p == nil {
		return nil, errors.New("linear model has no linear section")
	}
	if len(p.Coefficients) != nFeatures {
		return nil, fmt.Errorf("linear model has %d coefficients, n_features is %d", len(p.Coefficients), nFeatures)
	}
	return &linear{intercept: p.Intercept, coef: slices.Clone(p.Coefficients)}, nil
}

func (l *linear) eval(x []float64) float64 {
	y := l.intercept
	for i, c := range l.coef {
		y += c * x[i]
	}
	return y
}
