package artifact

import (
	"errors"
	"fmt"
	"slices"
)

const leaf = -1

type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	value     []float64
}

func (t *tree) eval(x []float64) float64 {
	node := 0
	for t.left[node] != leaf {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.value[node]
}

type ensemble struct {
	trees        []*tree
	sum          bool
	baseScore    float64
	learningRate float64
}

func (e *ensemble) eval(x []float64) float64 {
	var total float64
	for _, t := range e.trees {
		total += t.eval(x)
	}
	if e.sum {
		return e.baseScore + e.learningRate*total
	}
	return total / float64(len(e.trees))
}

func compileEnsemble(p *EnsembleParams, nFeatures int) (*ensemble, error) {
	if p == nil {
		return nil, errors.New("tree ensemble has no ensemble section")
	}
	if len(p.Trees) == 0 {
		return nil, errors.New("tree ensemble has no trees")
	}

	e := &ensemble{trees: make([]*tree, 0, len(p.Trees))}
	switch p.Aggregation {
	case AggregationMean, "":
	case AggregationSum:
		if p.LearningRate <= 0 {
			return nil, fmt.Errorf("learning_rate must be positive for aggregation %q", AggregationSum)
		}
		e.sum = true
		e.baseScore = p.BaseScore
		e.learningRate = p.LearningRate
	default:
		return nil, fmt.Errorf("unknown aggregation %q", p.Aggregation)
	}

	for i := range p.Trees {
		t, err := compileTree(&p.Trees[i], nFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, t)
	}
	return e, nil
}

// compileTree checks the node arrays. Children must come after their parent,
// as in a pre-order layout, so evaluation always terminates.
func compileTree(t *Tree, nFeatures int) (*tree, error) {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return nil, errors.New("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return nil, fmt.Errorf("node arrays differ in length: left=%d right=%d feature=%d threshold=%d value=%d",
			n, len(t.ChildrenRight), len(t.Feature), len(t.Threshold), len(t.Value))
	}

	for node := 0; node < n; node++ {
		l, r := t.ChildrenLeft[node], t.ChildrenRight[node]
		if l == leaf {
			if r != leaf {
				return nil, fmt.Errorf("node %d has a right child but no left child", node)
			}
			continue
		}
		if l <= node || l >= n || r <= node || r >= n {
			return nil, fmt.Errorf("node %d has out-of-order children %d/%d", node, l, r)
		}
		if f := t.Feature[node]; f < 0 || f >= nFeatures {
			return nil, fmt.Errorf("node %d splits on feature %d, n_features is %d", node, f, nFeatures)
		}
	}

	return &tree{
		left:      slices.Clone(t.ChildrenLeft),
		right:     slices.Clone(t.ChildrenRight),
		feature:   slices.Clone(t.Feature),
		threshold: slices.Clone(t.Threshold),
		value:     slices.Clone(t.Value),
	}, nil
}
