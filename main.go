// Package main is the entrypoint for the path2prep CLI.
package main

import (
	"github.com/garima1kafle/path2prep/cmd"
	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/iocache"
	"github.com/garima1kafle/path2prep/internal/onnx"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()
	defer func() {
		if err := onnx.Shutdown(); err != nil {
			contract.LogWarn("Failed to release ONNX Runtime", err)
		}
	}()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		_ = onnx.Shutdown()
		contract.LogFatal("Command failed", err)
	}
}
