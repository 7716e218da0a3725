// Package embed produces dense sentence embeddings with ONNX Runtime and a
// HuggingFace tokenizer, memoised in memory and optionally in a cache store.
package embed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/onnx"
)

// Embedder exposes the minimal surface required by the scholarship matcher.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
	ModelID() string
}

// Encoder turns one text into one vector without caching.
type Encoder interface {
	Encode(text string) ([]float32, error)
	Close() error
}

// Config wraps the configuration for the ORT encoder and its cache.
type Config struct {
	OrtLibPath    string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
	Dim           int
	ModelID       string
}

// New builds the ORT-backed embedder. Any missing artifact is reported as an
// error so the caller can mark the embedding backend unavailable.
func New(cfg Config, store contract.CacheStore) (*CachedEmbedder, error) {
	if cfg.ModelPath == "" || cfg.TokenizerPath == "" {
		return nil, fmt.Errorf("embedding model and tokenizer paths are required")
	}
	for _, path := range []string{cfg.ModelPath, cfg.TokenizerPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("embedding artifact %q: %w", path, err)
		}
	}
	if err := onnx.Init(cfg.OrtLibPath); err != nil {
		return nil, err
	}
	if cfg.ModelID == "" {
		cfg.ModelID = filepath.Base(filepath.Dir(cfg.ModelPath)) + "/" + filepath.Base(cfg.ModelPath)
	}
	enc, err := NewOrtEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return NewCachedEmbedder(enc, cfg.ModelID, store), nil
}
