package classifier

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/garima1kafle/path2prep/schema"
)

// DefaultNeighbors is the neighbour count used when knn.json omits k.
const DefaultNeighbors = 5

// KNN votes among the k nearest training samples by Euclidean distance.
// Every neighbour has the same weight.
type KNN struct {
	K        int         `json:"k"`
	NClasses int         `json:"n_classes"`
	Samples  [][]float64 `json:"samples"`
	Labels   []int       `json:"labels"`
}

var _ Classifier = &KNN{} // Compile-time check

// LoadKNN reads and validates knn.json.
func LoadKNN(path string, nClasses, nFeatures int) (*KNN, error) {
	knn := &KNN{}
	if err := readJSON(path, knn); err != nil {
		return nil, err
	}
	if knn.K <= 0 {
		knn.K = DefaultNeighbors
	}
	if knn.NClasses == 0 {
		knn.NClasses = nClasses
	}
	if err := knn.validate(nClasses, nFeatures); err != nil {
		return nil, fmt.Errorf("invalid knn model %s: %w", path, err)
	}
	return knn, nil
}

func (k *KNN) validate(nClasses, nFeatures int) error {
	if k.NClasses != nClasses {
		return fmt.Errorf("model has %d classes, label encoder has %d", k.NClasses, nClasses)
	}
	if len(k.Samples) == 0 || len(k.Samples) != len(k.Labels) {
		return fmt.Errorf("%d samples with %d labels", len(k.Samples), len(k.Labels))
	}
	for i, s := range k.Samples {
		if len(s) != nFeatures {
			return fmt.Errorf("sample %d has %d features, want %d", i, len(s), nFeatures)
		}
		if k.Labels[i] < 0 || k.Labels[i] >= nClasses {
			return fmt.Errorf("sample %d has label %d outside [0,%d)", i, k.Labels[i], nClasses)
		}
	}
	return nil
}

// Name implements Classifier.
func (k *KNN) Name() schema.Method {
	return schema.MethodKNN
}

// PredictProba implements Classifier.
func (k *KNN) PredictProba(ctx context.Context, x []float64) ([]float64, error) {
	if err := checkWidth(x, len(k.Samples[0])); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type neighbor struct {
		idx  int
		dist float64
	}
	neighbors := make([]neighbor, len(k.Samples))
	for i, s := range k.Samples {
		var d float64
		for j, v := range s {
			diff := v - x[j]
			d += diff * diff
		}
		neighbors[i] = neighbor{idx: i, dist: math.Sqrt(d)}
	}
	sort.SliceStable(neighbors, func(i, j int) bool { return neighbors[i].dist < neighbors[j].dist })

	n := min(k.K, len(neighbors))
	proba := make([]float64, k.NClasses)
	for _, nb := range neighbors[:n] {
		proba[k.Labels[nb.idx]] += 1 / float64(n)
	}
	return proba, nil
}
