// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResults prints ranked candidates using the configured output format.
func (ow *OutWriter) WriteResults(results []schema.ScoredCandidate, kind schema.CandidateKind, cfg *contract.Config, duration time.Duration) error {
	return PrintResults(results, kind, cfg, duration)
}

// WriteBackends prints backend availability using the configured output format.
func (ow *OutWriter) WriteBackends(statuses []schema.BackendStatus, cfg *contract.Config) error {
	return PrintBackends(statuses, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for candidate names in
// table output based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	baseWidth := 25 // Rank + Score + Label with borders/padding
	if cfg.Detail {
		baseWidth += 40 // Organization/Country or Salary/Growth
	}
	if cfg.Explain {
		baseWidth += 35
	}
	baseWidth += 20 // Borders, separators and padding

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
