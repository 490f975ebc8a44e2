// Package artifact loads a pre-trained regression model from disk.
//
// The file is read once at startup. Two model kinds are understood:
//
//	linear:        intercept + sum(coefficients[i] * x[i])
//	tree_ensemble: regression trees in scikit-learn array form
//	               (children_left, children_right, feature, threshold, value).
//	               A node is a leaf when children_left is -1, and a sample goes
//	               left when x[feature] <= threshold. Trees are averaged
//	               (aggregation "mean", random forests) or summed
//	               (aggregation "sum", gradient boosting:
//	               base_score + learning_rate * sum(tree)).
//
// JSON (.json) and YAML (.yaml, .yml) encodings share the same schema.
package artifact

type Kind string

const (
	KindLinear       Kind = "linear"
	KindTreeEnsemble Kind = "tree_ensemble"
)

const (
	AggregationMean = "mean"
	AggregationSum  = "sum"
)

// Artifact is the on-disk schema.
type Artifact struct {
	Name         string          `json:"name" yaml:"name"`
	Version      string          `json:"version" yaml:"version"`
	Kind         Kind            `json:"kind" yaml:"kind"`
	NFeatures    int             `json:"n_features" yaml:"n_features"`
	FeatureNames []string        `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`
	Linear       *LinearParams   `json:"linear,omitempty" yaml:"linear,omitempty"`
	Ensemble     *EnsembleParams `json:"ensemble,omitempty" yaml:"ensemble,omitempty"`
}

type LinearParams struct {
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
}

type EnsembleParams struct {
	Aggregation  string  `json:"aggregation" yaml:"aggregation"`
	BaseScore    float64 `json:"base_score,omitempty" yaml:"base_score,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty" yaml:"learning_rate,omitempty"`
	Trees        []Tree  `json:"trees" yaml:"trees"`
}

type Tree struct {
	ChildrenLeft  []int     `json:"children_left" yaml:"children_left"`
	ChildrenRight []int     `json:"children_right" yaml:"children_right"`
	Feature       []int     `json:"feature" yaml:"feature"`
	Threshold     []float64 `json:"threshold" yaml:"threshold"`
	Value         []float64 `json:"value" yaml:"value"`
}

// Info describes a loaded model.
type Info struct {
	Name         string   `json:"name" yaml:"name"`
	Version      string   `json:"version" yaml:"version"`
	Kind         Kind     `json:"kind" yaml:"kind"`
	NFeatures    int      `json:"n_features" yaml:"n_features"`
	FeatureNames []string `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`
	Trees        int      `json:"trees,omitempty" yaml:"trees,omitempty"`
	Source       string   `json:"source" yaml:"source"`
}
