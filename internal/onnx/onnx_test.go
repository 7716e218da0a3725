package onnx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitMissingLibrary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "libonnxruntime.so")

	err := Init(missing)
	assert.Error(t, err)
	assert.ErrorContains(t, err, missing)

	// The first outcome sticks for the life of the process.
	assert.Equal(t, err, Init(""))
	assert.NoError(t, Shutdown())
}
