package embed

import (
	"errors"
	"fmt"
	"math"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Input and output names of a sentence-transformers ONNX export.
var (
	encoderInputs  = []string{"input_ids", "attention_mask", "token_type_ids"}
	encoderOutputs = []string{"last_hidden_state"}
)

// OrtEncoder runs a transformer encoder and mean-pools its token states.
type OrtEncoder struct {
	tk        *tokenizer.Tokenizer
	session   *ort.DynamicAdvancedSession
	maxSeqLen int
	dim       int
}

var _ Encoder = &OrtEncoder{} // Compile-time check

// NewOrtEncoder loads the tokenizer and creates the ORT session. The ONNX
// environment must already be initialized.
func NewOrtEncoder(cfg Config) (*OrtEncoder, error) {
	if cfg.Dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", cfg.Dim)
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", cfg.TokenizerPath, err)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, encoderInputs, encoderOutputs, nil)
	if err != nil {
		return nil, fmt.Errorf("create onnx session for %q: %w", cfg.ModelPath, err)
	}
	return &OrtEncoder{
		tk:        tk,
		session:   session,
		maxSeqLen: cfg.MaxSeqLen,
		dim:       cfg.Dim,
	}, nil
}

// Encode embeds one text into an L2-normalized vector.
func (e *OrtEncoder) Encode(text string) ([]float32, error) {
	if e == nil || e.session == nil {
		return nil, errors.New("encoder is not initialized")
	}
	encoding, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids, mask, types := truncate(encoding.Ids, encoding.AttentionMask, encoding.TypeIds, e.maxSeqLen)
	seqLen := len(ids)
	if seqLen == 0 {
		return nil, errors.New("tokenizer produced no tokens")
	}

	shape := ort.NewShape(1, int64(seqLen))
	idsT, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, err
	}
	defer func() { _ = idsT.Destroy() }()
	maskT, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, err
	}
	defer func() { _ = maskT.Destroy() }()
	typesT, err := ort.NewTensor(shape, types)
	if err != nil {
		return nil, err
	}
	defer func() { _ = typesT.Destroy() }()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(seqLen), int64(e.dim)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = out.Destroy() }()

	if err := e.session.Run([]ort.Value{idsT, maskT, typesT}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("run encoder: %w", err)
	}
	return MeanPool(out.GetData(), mask, seqLen, e.dim), nil
}

// Close releases the ORT session.
func (e *OrtEncoder) Close() error {
	if e == nil || e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}

// truncate converts tokenizer output to int64 tensors of at most maxLen
// tokens. The final special token is kept when truncating.
func truncate(ids, mask, types []int, maxLen int) ([]int64, []int64, []int64) {
	n := len(ids)
	last := n - 1
	keep := func(i int) int { return i }
	if maxLen > 1 && n > maxLen {
		keep = func(i int) int {
			if i == maxLen-1 {
				return last
			}
			return i
		}
		n = maxLen
	}
	outIDs := make([]int64, n)
	outMask := make([]int64, n)
	outTypes := make([]int64, n)
	for i := range n {
		src := keep(i)
		outIDs[i] = int64(ids[src])
		outMask[i] = 1
		if src < len(mask) {
			outMask[i] = int64(mask[src])
		}
		if src < len(types) {
			outTypes[i] = int64(types[src])
		}
	}
	return outIDs, outMask, outTypes
}

// MeanPool averages token states whose attention mask is set, then
// L2-normalizes the result. hidden is laid out as [seqLen][dim].
func MeanPool(hidden []float32, mask []int64, seqLen, dim int) []float32 {
	out := make([]float32, dim)
	if len(hidden) < seqLen*dim {
		return out
	}
	var count float32
	for t := range seqLen {
		if t < len(mask) && mask[t] == 0 {
			continue
		}
		row := hidden[t*dim : (t+1)*dim]
		for d, v := range row {
			out[d] += v
		}
		count++
	}
	if count == 0 {
		return out
	}
	var norm float64
	for d := range out {
		out[d] /= count
		norm += float64(out[d]) * float64(out[d])
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for d := range out {
			out[d] *= inv
		}
	}
	return out
}
