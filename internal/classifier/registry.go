package classifier

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/garima1kafle/path2prep/internal/features"
	"github.com/garima1kafle/path2prep/internal/onnx"
	"github.com/garima1kafle/path2prep/schema"
)

// Registry owns the loaded career models. It is immutable after Load and safe
// to share across concurrent ranking calls.
type Registry struct {
	labels      []string
	columns     []string
	classifiers map[schema.Method]Classifier
	statuses    []schema.BackendStatus
}

// LoadConfig tells Load where the model artifacts live.
type LoadConfig struct {
	Dir        string
	OrtLibPath string
}

// Load reads every artifact it can find. It never fails: a classifier whose
// artifacts are missing or broken is reported unavailable with a reason.
func Load(cfg LoadConfig) *Registry {
	r := &Registry{classifiers: make(map[schema.Method]Classifier)}

	enc := labelEncoder{}
	if err := readJSON(filepath.Join(cfg.Dir, LabelEncoderFile), &enc); err != nil || len(enc.Classes) == 0 {
		reason := unavailableReason(err, "label encoder has no classes")
		for _, m := range schema.ClassifierMethods {
			r.markUnavailable(m, reason)
		}
		return r
	}
	r.labels = enc.Classes

	if err := readJSON(filepath.Join(cfg.Dir, FeatureColumnsFile), &r.columns); err != nil || len(r.columns) == 0 {
		r.columns = features.DefaultColumns()
	}
	nClasses, nFeatures := len(r.labels), len(r.columns)

	if rf, err := LoadRandomForest(filepath.Join(cfg.Dir, RandomForestFile), nClasses, nFeatures); err != nil {
		r.markUnavailable(schema.MethodRandomForest, unavailableReason(err, ""))
	} else {
		r.add(rf)
	}

	if knn, err := LoadKNN(filepath.Join(cfg.Dir, KNNFile), nClasses, nFeatures); err != nil {
		r.markUnavailable(schema.MethodKNN, unavailableReason(err, ""))
	} else {
		r.add(knn)
	}

	if nn, err := loadNeuralNet(cfg, nClasses, nFeatures); err != nil {
		r.markUnavailable(schema.MethodNeuralNet, unavailableReason(err, ""))
	} else {
		r.add(nn)
	}
	return r
}

func loadNeuralNet(cfg LoadConfig, nClasses, nFeatures int) (*NeuralNet, error) {
	modelPath := filepath.Join(cfg.Dir, NeuralNetFile)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, err
	}
	scaler, err := LoadScaler(filepath.Join(cfg.Dir, NeuralScalerFile), nFeatures)
	if err != nil {
		return nil, err
	}
	if err := onnx.Init(cfg.OrtLibPath); err != nil {
		return nil, err
	}
	return LoadNeuralNet(modelPath, scaler, nClasses)
}

// NewRegistry builds a registry from already constructed classifiers.
// Classifier methods not supplied are reported unavailable.
func NewRegistry(labels, columns []string, classifiers ...Classifier) *Registry {
	r := &Registry{
		labels:      labels,
		columns:     columns,
		classifiers: make(map[schema.Method]Classifier),
	}
	for _, c := range classifiers {
		r.add(c)
	}
	for _, m := range schema.ClassifierMethods {
		if _, ok := r.classifiers[m]; !ok {
			r.markUnavailable(m, "not configured")
		}
	}
	return r
}

func (r *Registry) add(c Classifier) {
	r.classifiers[c.Name()] = c
	r.statuses = append(r.statuses, schema.BackendStatus{
		Engine:    schema.CareerKind,
		Name:      c.Name(),
		Available: true,
	})
}

func (r *Registry) markUnavailable(m schema.Method, reason string) {
	r.statuses = append(r.statuses, schema.BackendStatus{
		Engine: schema.CareerKind,
		Name:   m,
		Reason: reason,
	})
}

// Labels returns the class labels in model index order.
func (r *Registry) Labels() []string {
	return r.labels
}

// Columns returns the feature columns the models were trained on.
func (r *Registry) Columns() []string {
	return r.columns
}

// Classifier returns the loaded classifier for m.
func (r *Registry) Classifier(m schema.Method) (Classifier, bool) {
	c, ok := r.classifiers[m]
	return c, ok
}

// Status returns the availability of every classifier in ensemble order.
func (r *Registry) Status() []schema.BackendStatus {
	out := make([]schema.BackendStatus, 0, len(schema.ClassifierMethods))
	for _, m := range schema.ClassifierMethods {
		for _, s := range r.statuses {
			if s.Name == m {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Close releases classifiers that hold native resources.
func (r *Registry) Close() error {
	var errs []error
	for _, c := range r.classifiers {
		if closer, ok := c.(interface{ Close() error }); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

func unavailableReason(err error, fallback string) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("model artifact missing: %v", err)
	case err != nil:
		return err.Error()
	default:
		return fallback
	}
}
