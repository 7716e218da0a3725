package classifier

import (
	"context"
	"fmt"

	"github.com/garima1kafle/path2prep/schema"
	ort "github.com/yalue/onnxruntime_go"
)

// Scaler standardizes features before the neural network sees them.
type Scaler struct {
	Mean       []float64 `json:"mean"`
	Scale      []float64 `json:"scale"`
	InputName  string    `json:"input_name"`
	OutputName string    `json:"output_name"`
}

// Transform returns (x - mean) / scale. A zero scale passes the centred value through.
func (s *Scaler) Transform(x []float64) ([]float32, error) {
	if err := checkWidth(x, len(s.Mean)); err != nil {
		return nil, err
	}
	out := make([]float32, len(x))
	for i, v := range x {
		centred := v - s.Mean[i]
		if s.Scale[i] != 0 {
			centred /= s.Scale[i]
		}
		out[i] = float32(centred)
	}
	return out, nil
}

// LoadScaler reads and validates neural_network_scaler.json.
func LoadScaler(path string, nFeatures int) (*Scaler, error) {
	s := &Scaler{}
	if err := readJSON(path, s); err != nil {
		return nil, err
	}
	if len(s.Mean) != nFeatures || len(s.Scale) != nFeatures {
		return nil, fmt.Errorf("scaler %s has %d/%d entries, want %d", path, len(s.Mean), len(s.Scale), nFeatures)
	}
	if s.InputName == "" {
		s.InputName = "input"
	}
	if s.OutputName == "" {
		s.OutputName = "output"
	}
	return s, nil
}

// NeuralNet runs the exported softmax network with ONNX Runtime.
type NeuralNet struct {
	session  *ort.DynamicAdvancedSession
	scaler   *Scaler
	nClasses int
}

var _ Classifier = &NeuralNet{} // Compile-time check

// LoadNeuralNet opens the ONNX model. The ONNX environment must already be initialized.
func LoadNeuralNet(modelPath string, scaler *Scaler, nClasses int) (*NeuralNet, error) {
	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{scaler.InputName}, []string{scaler.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("create onnx session for %q: %w", modelPath, err)
	}
	return &NeuralNet{session: session, scaler: scaler, nClasses: nClasses}, nil
}

// Name implements Classifier.
func (n *NeuralNet) Name() schema.Method {
	return schema.MethodNeuralNet
}

// PredictProba implements Classifier.
func (n *NeuralNet) PredictProba(ctx context.Context, x []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scaled, err := n.scaler.Transform(x)
	if err != nil {
		return nil, err
	}
	in, err := ort.NewTensor(ort.NewShape(1, int64(len(scaled))), scaled)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Destroy() }()
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(n.nClasses)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = out.Destroy() }()

	if err := n.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("run neural network: %w", err)
	}
	raw := out.GetData()
	proba := make([]float64, n.nClasses)
	for i := range proba {
		proba[i] = float64(raw[i])
	}
	return normalize(proba), nil
}

// Close releases the ORT session.
func (n *NeuralNet) Close() error {
	if n == nil || n.session == nil {
		return nil
	}
	err := n.session.Destroy()
	n.session = nil
	return err
}
