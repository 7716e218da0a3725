// Package corpus loads student profiles and candidate pools from files and
// narrows pools down to eligible records.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garima1kafle/path2prep/schema"
	"github.com/goccy/go-json"
)

// Source supplies profiles and eligible candidate pools to the ranking engines.
type Source interface {
	// Profile returns the profile of user, or nil when there is none.
	Profile(ctx context.Context, user string) (*schema.Profile, error)

	// Candidates returns the eligible pool of the given kind in stored order.
	Candidates(ctx context.Context, kind schema.CandidateKind) ([]schema.Candidate, error)
}

// FileSource reads profiles and pools from JSON or CSV files.
// An empty path means the collection is empty.
type FileSource struct {
	ProfilesPath     string
	CareersPath      string
	ScholarshipsPath string
}

var _ Source = &FileSource{} // Compile-time check

// Profile implements Source.
func (s *FileSource) Profile(_ context.Context, user string) (*schema.Profile, error) {
	return LoadProfile(s.ProfilesPath, user)
}

// Candidates implements Source.
func (s *FileSource) Candidates(_ context.Context, kind schema.CandidateKind) ([]schema.Candidate, error) {
	path := s.CareersPath
	if kind == schema.ScholarshipKind {
		path = s.ScholarshipsPath
	}
	if path == "" {
		return []schema.Candidate{}, nil
	}
	pool, err := LoadCandidates(path, kind)
	if err != nil {
		return nil, err
	}
	return Eligible(pool), nil
}

// LoadProfiles reads a JSON file holding one profile object or an array of them.
func LoadProfiles(path string) ([]schema.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles %q: %w", path, err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var profiles []schema.Profile
		if err := json.Unmarshal(data, &profiles); err != nil {
			return nil, fmt.Errorf("failed to decode profiles %q: %w", path, err)
		}
		return profiles, nil
	}
	var profile schema.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %q: %w", path, err)
	}
	return []schema.Profile{profile}, nil
}

// LoadProfile returns the profile of user from path. A missing user is not an
// error: the result is nil and the engines fall back to default scores. When
// user is empty and the file holds a single profile, that profile is used.
func LoadProfile(path, user string) (*schema.Profile, error) {
	if path == "" {
		return nil, nil
	}
	profiles, err := LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	return FindProfile(profiles, user), nil
}

// FindProfile picks the profile owned by user.
func FindProfile(profiles []schema.Profile, user string) *schema.Profile {
	if user == "" {
		if len(profiles) == 1 {
			return &profiles[0]
		}
		return nil
	}
	for i := range profiles {
		if profiles[i].User == user {
			return &profiles[i]
		}
	}
	return nil
}

// LoadCandidates reads a pool from a .json or .csv file and stamps each
// record with kind. Records keep file order and are not filtered.
func LoadCandidates(path string, kind schema.CandidateKind) ([]schema.Candidate, error) {
	var (
		pool []schema.Candidate
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		pool, err = readCandidatesCSV(path)
	case ".json":
		pool, err = readCandidatesJSON(path)
	default:
		return nil, fmt.Errorf("unsupported candidate file %q: must end in .json or .csv", path)
	}
	if err != nil {
		return nil, err
	}
	for i := range pool {
		pool[i].Kind = kind
	}
	return pool, nil
}

// Eligible keeps the approved and active candidates, preserving order.
func Eligible(pool []schema.Candidate) []schema.Candidate {
	out := make([]schema.Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Eligible() {
			out = append(out, c)
		}
	}
	return out
}

// candidateRecord is the on-disk shape of a candidate. Scholarships use
// "title" where careers use "name", and absent flags mean true.
type candidateRecord struct {
	ID             int64    `json:"id,omitempty"`
	Name           string   `json:"name,omitempty"`
	Title          string   `json:"title,omitempty"`
	Description    string   `json:"description,omitempty"`
	Eligibility    string   `json:"eligibility,omitempty"`
	Organization   string   `json:"organization,omitempty"`
	Category       string   `json:"category,omitempty"`
	Country        string   `json:"country,omitempty"`
	FundingAmount  string   `json:"funding_amount,omitempty"`
	Deadline       string   `json:"deadline,omitempty"`
	Link           string   `json:"link,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	AverageSalary  string   `json:"average_salary,omitempty"`
	GrowthRate     string   `json:"growth_rate,omitempty"`
	IsApproved     *bool    `json:"is_approved,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

func (r candidateRecord) toCandidate() (schema.Candidate, error) {
	c := schema.Candidate{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Eligibility:    r.Eligibility,
		Organization:   r.Organization,
		Category:       r.Category,
		Country:        r.Country,
		FundingAmount:  r.FundingAmount,
		Link:           r.Link,
		RequiredSkills: r.RequiredSkills,
		AverageSalary:  r.AverageSalary,
		GrowthRate:     r.GrowthRate,
		IsApproved:     r.IsApproved == nil || *r.IsApproved,
		IsActive:       r.IsActive == nil || *r.IsActive,
	}
	if c.Name == "" {
		c.Name = r.Title
	}
	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return c, err
	}
	c.Deadline = deadline
	return c, nil
}

func readCandidatesJSON(path string) ([]schema.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates %q: %w", path, err)
	}
	var records []candidateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode candidates %q: %w", path, err)
	}
	pool := make([]schema.Candidate, 0, len(records))
	for i, r := range records {
		c, err := r.toCandidate()
		if err != nil {
			return nil, fmt.Errorf("candidate %d in %q: %w", i, path, err)
		}
		pool = append(pool, c)
	}
	return pool, nil
}

// parseDeadline accepts a date or an RFC 3339 timestamp.
func parseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q: use YYYY-MM-DD", raw)
}
