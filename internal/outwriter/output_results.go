package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/parquet"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// breakdownOrder fixes the order backends are listed in explanations.
var breakdownOrder = append(append([]schema.Method{}, schema.ClassifierMethods...), schema.SimilarityMethods...)

// PrintResults outputs ranked candidates, dispatching on the configured output format.
func PrintResults(results []schema.ScoredCandidate, kind schema.CandidateKind, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResults(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResults(w, results, kind, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet output")
		}
		rows := parquet.ConvertScoredCandidates(results, kind, time.Now())
		if err := parquet.WriteRankResultsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsTable(w, results, kind, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeResultsTable generates and writes the human-readable table.
func writeResultsTable(w io.Writer, results []schema.ScoredCandidate, kind schema.CandidateKind, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Name", "Score", "Label"}
	if cfg.Detail {
		headers = append(headers, detailHeaders(kind)...)
	}
	if cfg.Explain {
		headers = append(headers, "Method", "Breakdown")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Rank),
			contract.TruncateText(r.Candidate.Name, nameWidth),
			fmtFloat(r.Score),
		}
		if cfg.UseColors {
			row = append(row, contract.GetColorLabel(r.Score))
		} else {
			row = append(row, contract.GetPlainLabel(r.Score))
		}
		if cfg.Detail {
			row = append(row, detailValues(r.Candidate, kind)...)
		}
		if cfg.Explain {
			row = append(row, string(r.Method), formatBreakdown(r.Breakdown, fmtFloat))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	method := schema.MethodDefault
	if len(results) > 0 {
		method = results[0].Method
	}
	if _, err := fmt.Fprintf(w, "Showing top %d %s (method: %s)\n", len(results), pluralKind(kind), method); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResults writes the ranked candidates in CSV format.
func writeCSVResults(w io.Writer, results []schema.ScoredCandidate, kind schema.CandidateKind, fmtFloat func(float64) string) error {
	header := []string{"rank", "name", "kind", "score", "label", "method", "breakdown"}
	header = append(header, csvDetailHeaders(kind)...)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			rec := []string{
				strconv.Itoa(r.Rank),
				r.Candidate.Name,
				string(kind),
				fmtFloat(r.Score),
				contract.GetPlainLabel(r.Score),
				string(r.Method),
				formatBreakdown(r.Breakdown, fmtFloat),
			}
			rec = append(rec, detailValues(r.Candidate, kind)...)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResults writes the ranked candidates with their labels in JSON format.
func writeJSONResults(w io.Writer, results []schema.ScoredCandidate) error {
	return writeJSON(w, schema.EnrichResults(results))
}

func detailHeaders(kind schema.CandidateKind) []string {
	if kind == schema.ScholarshipKind {
		return []string{"Organization", "Country", "Deadline"}
	}
	return []string{"Salary", "Growth"}
}

func csvDetailHeaders(kind schema.CandidateKind) []string {
	if kind == schema.ScholarshipKind {
		return []string{"organization", "country", "deadline"}
	}
	return []string{"average_salary", "growth_rate"}
}

func detailValues(c schema.Candidate, kind schema.CandidateKind) []string {
	if kind == schema.ScholarshipKind {
		deadline := ""
		if c.Deadline != nil {
			deadline = c.Deadline.Format(time.DateOnly)
		}
		return []string{c.Organization, c.Country, deadline}
	}
	return []string{c.AverageSalary, c.GrowthRate}
}

// formatBreakdown lists each contributing backend score, e.g. "tfidf=0.41 bert=0.77".
func formatBreakdown(breakdown map[schema.Method]float64, fmtFloat func(float64) string) string {
	if len(breakdown) == 0 {
		return "Not applicable"
	}
	var parts []string
	for _, m := range breakdownOrder {
		if v, ok := breakdown[m]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", m, fmtFloat(v)))
		}
	}
	return strings.Join(parts, " ")
}

func pluralKind(kind schema.CandidateKind) string {
	if kind == schema.ScholarshipKind {
		return "scholarships"
	}
	return "careers"
}
