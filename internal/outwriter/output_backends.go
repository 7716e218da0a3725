package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/olekukonko/tablewriter"
)

// backendRow is one backend with the weight it carries in its engine.
type backendRow struct {
	schema.BackendStatus
	Weight float64 `json:"weight"`
}

// PrintBackends displays which scoring backends are available and their weights.
func PrintBackends(statuses []schema.BackendStatus, cfg *contract.Config) error {
	rows := make([]backendRow, len(statuses))
	for i, s := range statuses {
		rows[i] = backendRow{BackendStatus: s, Weight: cfg.WeightsFor(s.Engine)[s.Name]}
	}
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBackends(w, rows, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for backends")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBackendsTable(w, rows, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeBackendsTable(w io.Writer, rows []backendRow, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Engine", "Backend", "Weight", "Available", "Reason"})

	var data [][]string
	available := 0
	for _, r := range rows {
		state := "no"
		if r.Available {
			state = "yes"
			available++
		}
		if cfg.UseColors {
			if r.Available {
				state = contract.StrongColor.Sprint(state)
			} else {
				state = contract.WeakColor.Sprint(state)
			}
		}
		data = append(data, []string{string(r.Engine), string(r.Name), fmtFloat(r.Weight), state, r.Reason})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d backends available. Unavailable backends are skipped and weights renormalized.\n", available, len(rows))
	return err
}

func writeCSVBackends(w io.Writer, rows []backendRow, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"engine", "backend", "weight", "available", "reason"}, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{string(r.Engine), string(r.Name), fmtFloat(r.Weight), strconv.FormatBool(r.Available), r.Reason}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
