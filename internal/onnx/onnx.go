// Package onnx owns the process-wide ONNX Runtime environment shared by the
// embedding encoder and the neural network classifier.
package onnx

import (
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ErrNoLibrary is returned when no ONNX Runtime shared library is configured.
var ErrNoLibrary = errors.New("onnx runtime library path is not configured")

var (
	mu      sync.Mutex
	initErr error
	tried   bool
)

// Init loads the ONNX Runtime shared library once per process. Later calls
// return the outcome of the first one, whatever path they pass.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if tried {
		return initErr
	}
	tried = true

	if path == "" {
		initErr = ErrNoLibrary
		return initErr
	}
	if _, err := os.Stat(path); err != nil {
		initErr = fmt.Errorf("onnx runtime library %q: %w", path, err)
		return initErr
	}
	ort.SetSharedLibraryPath(path)
	if err := ort.InitializeEnvironment(); err != nil {
		initErr = fmt.Errorf("initialize onnx runtime: %w", err)
	}
	return initErr
}

// Shutdown releases the environment. It is a no-op when Init never succeeded.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()
	if !tried || initErr != nil || !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
