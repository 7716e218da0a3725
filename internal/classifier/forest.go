package classifier

import (
	"context"
	"fmt"

	"github.com/garima1kafle/path2prep/schema"
)

// Tree is one exported decision tree. Node i is a leaf when ChildrenLeft[i] is -1;
// otherwise samples with x[Feature[i]] <= Threshold[i] go left. Value[i] holds the
// class weights seen at node i.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// RandomForest averages the leaf distributions of its trees.
type RandomForest struct {
	NFeatures int    `json:"n_features"`
	NClasses  int    `json:"n_classes"`
	Trees     []Tree `json:"trees"`
}

var _ Classifier = &RandomForest{} // Compile-time check

// LoadRandomForest reads and validates random_forest.json.
func LoadRandomForest(path string, nClasses, nFeatures int) (*RandomForest, error) {
	rf := &RandomForest{}
	if err := readJSON(path, rf); err != nil {
		return nil, err
	}
	if rf.NClasses == 0 {
		rf.NClasses = nClasses
	}
	if rf.NFeatures == 0 {
		rf.NFeatures = nFeatures
	}
	if err := rf.validate(nClasses, nFeatures); err != nil {
		return nil, fmt.Errorf("invalid random forest %s: %w", path, err)
	}
	return rf, nil
}

func (rf *RandomForest) validate(nClasses, nFeatures int) error {
	if rf.NClasses != nClasses {
		return fmt.Errorf("model has %d classes, label encoder has %d", rf.NClasses, nClasses)
	}
	if rf.NFeatures != nFeatures {
		return fmt.Errorf("model has %d features, feature columns have %d", rf.NFeatures, nFeatures)
	}
	if len(rf.Trees) == 0 {
		return fmt.Errorf("no trees")
	}
	for t, tree := range rf.Trees {
		n := len(tree.ChildrenLeft)
		if n == 0 || len(tree.ChildrenRight) != n || len(tree.Feature) != n ||
			len(tree.Threshold) != n || len(tree.Value) != n {
			return fmt.Errorf("tree %d: node arrays differ in length", t)
		}
		for i := range n {
			if len(tree.Value[i]) != rf.NClasses {
				return fmt.Errorf("tree %d node %d: value width %d", t, i, len(tree.Value[i]))
			}
			l, r := tree.ChildrenLeft[i], tree.ChildrenRight[i]
			if l == -1 {
				continue
			}
			if l <= i || r <= i || l >= n || r >= n {
				return fmt.Errorf("tree %d node %d: bad children %d/%d", t, i, l, r)
			}
			if f := tree.Feature[i]; f < 0 || f >= rf.NFeatures {
				return fmt.Errorf("tree %d node %d: bad feature %d", t, i, f)
			}
		}
	}
	return nil
}

// Name implements Classifier.
func (rf *RandomForest) Name() schema.Method {
	return schema.MethodRandomForest
}

// PredictProba implements Classifier.
func (rf *RandomForest) PredictProba(ctx context.Context, x []float64) ([]float64, error) {
	if err := checkWidth(x, rf.NFeatures); err != nil {
		return nil, err
	}
	proba := make([]float64, rf.NClasses)
	for _, tree := range rf.Trees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		leaf := tree.leaf(x)
		dist := normalize(append([]float64(nil), tree.Value[leaf]...))
		for c, v := range dist {
			proba[c] += v
		}
	}
	for c := range proba {
		proba[c] /= float64(len(rf.Trees))
	}
	return proba, nil
}

// leaf walks the tree to the leaf reached by x. Children always have larger
// indices than their parent, which validate enforces, so the walk terminates.
func (t Tree) leaf(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}
