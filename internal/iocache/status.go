package iocache

import (
	"fmt"
	"io"
	"sort"

	"github.com/garima1kafle/path2prep/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints embedding cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintLatestResults prints the latest recorded ranking of one user.
func PrintLatestResults(w io.Writer, user string, engine schema.CandidateKind, records []schema.RankResultRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintf(w, "No %s rankings recorded for %q.\n", engine, user)
		return
	}
	_, _ = fmt.Fprintf(w, "Latest %s ranking for %q (run %d, %s):\n", engine, user,
		records[0].RunID, records[0].RecordedAt.Format(statusTimeFormat))
	for _, r := range records {
		_, _ = fmt.Fprintf(w, "  %2d. %-40s %.4f  %-8s %s\n", r.Rank, r.CandidateName, r.Score, r.Label, r.Method)
	}
}

// PrintHistoryStatus prints ranking history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Total Results Ranked: %d\n", status.TotalResults)
	}
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
