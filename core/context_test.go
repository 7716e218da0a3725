package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = withRunID(ctx, 12345)

	const numGoroutines = 50
	done := make(chan bool, numGoroutines)
	for i := range numGoroutines {
		go func(id int) {
			defer func() { done <- true }()
			runID, ok := getRunID(ctx)
			assert.True(t, ok, "Goroutine %d: getRunID should return true", id)
			assert.Equal(t, int64(12345), runID, "Goroutine %d: runID should be 12345", id)
			assert.Equal(t, "req-1", RequestIDFrom(ctx), "Goroutine %d", id)
		}(i)
	}
	for range numGoroutines {
		<-done
	}
}

// TestContextDefaults tests lookups on a bare context.
func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFrom(ctx))
	_, ok := getRunID(ctx)
	assert.False(t, ok)
}
