package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/parquet"
)

// ExecuteHistoryExport writes the ranking history of store to Parquet files
// named after outputFile.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no ranking history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total ranking runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total result records: %d\n", status.TableSizes[rankResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ranking runs: %w", err)
	}
	results, err := store.GetAllResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve ranking results: %w", err)
	}

	parquetRuns := parquet.ConvertRankRunRecords(runs)
	runsFile := outputFile + ".rank_runs.parquet"
	if err := parquet.WriteRankRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write ranking runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking runs to: %s\n", len(parquetRuns), runsFile)

	parquetResults := parquet.ConvertRankResultRecords(results)
	resultsFile := outputFile + ".rank_results.parquet"
	if err := parquet.WriteRankResultsParquet(parquetResults, resultsFile); err != nil {
		return fmt.Errorf("failed to write ranking results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking results to: %s\n", len(parquetResults), resultsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
