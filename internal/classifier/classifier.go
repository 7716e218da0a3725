// Package classifier loads the exported career classifiers and serves class
// probability distributions over the shared label space.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/garima1kafle/path2prep/schema"
	"github.com/goccy/go-json"
)

// Model artifact file names inside the models directory.
const (
	LabelEncoderFile   = "label_encoder.json"
	FeatureColumnsFile = "feature_columns.json"
	RandomForestFile   = "random_forest.json"
	KNNFile            = "knn.json"
	NeuralNetFile      = "neural_network.onnx"
	NeuralScalerFile   = "neural_network_scaler.json"
)

// ErrFeatureWidth is returned when a feature vector does not match the model.
var ErrFeatureWidth = errors.New("feature vector width does not match model")

// Classifier emits a probability distribution over every known label.
type Classifier interface {
	Name() schema.Method
	PredictProba(ctx context.Context, x []float64) ([]float64, error)
}

// labelEncoder is the JSON form of label_encoder.json.
type labelEncoder struct {
	Classes []string `json:"classes"`
}

// readJSON decodes a JSON artifact into v.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// checkWidth verifies a feature vector has the width the model was trained on.
func checkWidth(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureWidth, len(x), want)
	}
	return nil
}

// normalize scales p in place so it sums to 1. Negative entries become 0.
// An all-zero distribution is left untouched.
func normalize(p []float64) []float64 {
	var sum float64
	for i, v := range p {
		if v < 0 {
			p[i] = 0
			continue
		}
		sum += v
	}
	if sum > 0 {
		for i := range p {
			p[i] /= sum
		}
	}
	return p
}
