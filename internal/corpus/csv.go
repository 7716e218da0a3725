package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/garima1kafle/path2prep/schema"
)

// csvSetters maps header names to the candidate field they fill.
var csvSetters = map[string]func(*candidateRecord, string) error{
	"id": func(r *candidateRecord, v string) error {
		if v == "" {
			return nil
		}
		id, err := strconv.ParseInt(v, 10, 64)
		r.ID = id
		return err
	},
	"name":            func(r *candidateRecord, v string) error { r.Name = v; return nil },
	"title":           func(r *candidateRecord, v string) error { r.Title = v; return nil },
	"description":     func(r *candidateRecord, v string) error { r.Description = v; return nil },
	"eligibility":     func(r *candidateRecord, v string) error { r.Eligibility = v; return nil },
	"organization":    func(r *candidateRecord, v string) error { r.Organization = v; return nil },
	"category":        func(r *candidateRecord, v string) error { r.Category = v; return nil },
	"country":         func(r *candidateRecord, v string) error { r.Country = v; return nil },
	"funding_amount":  func(r *candidateRecord, v string) error { r.FundingAmount = v; return nil },
	"deadline":        func(r *candidateRecord, v string) error { r.Deadline = v; return nil },
	"link":            func(r *candidateRecord, v string) error { r.Link = v; return nil },
	"average_salary":  func(r *candidateRecord, v string) error { r.AverageSalary = v; return nil },
	"growth_rate":     func(r *candidateRecord, v string) error { r.GrowthRate = v; return nil },
	"required_skills": func(r *candidateRecord, v string) error { r.RequiredSkills = splitList(v); return nil },
	"is_approved":     func(r *candidateRecord, v string) error { return setFlag(&r.IsApproved, v) },
	"is_active":       func(r *candidateRecord, v string) error { return setFlag(&r.IsActive, v) },
}

// readCandidatesCSV reads a headered CSV file. Unknown columns are ignored.
func readCandidatesCSV(path string) ([]schema.Candidate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []schema.Candidate{}, nil
		}
		return nil, fmt.Errorf("failed to read header of %q: %w", path, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var pool []schema.Candidate
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		var rec candidateRecord
		for i, value := range row {
			set, ok := csvSetters[header[i]]
			if !ok {
				continue
			}
			if err := set(&rec, strings.TrimSpace(value)); err != nil {
				return nil, fmt.Errorf("%s:%d: column %s: %w", path, line, header[i], err)
			}
		}
		c, err := rec.toCandidate()
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		pool = append(pool, c)
	}
	if pool == nil {
		pool = []schema.Candidate{}
	}
	return pool, nil
}

// splitList splits a semicolon separated cell into trimmed values.
func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setFlag(dst **bool, v string) error {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		switch strings.ToLower(v) {
		case "yes", "y":
			b = true
		case "no", "n":
			b = false
		default:
			return fmt.Errorf("invalid boolean %q", v)
		}
	}
	*dst = &b
	return nil
}
