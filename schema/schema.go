// Package schema has configs, models and constants for all parts of path2prep.
package schema

import "time"

// Profile is the student profile a ranking is computed for.
// Numeric scores are pointers because every one of them is optional.
type Profile struct {
	User                string   `json:"user"`
	GPA                 *float64 `json:"gpa,omitempty"`
	DegreeLevel         string   `json:"degree_level,omitempty"`
	Major               string   `json:"major,omitempty"`
	Country             string   `json:"country,omitempty"`
	TargetCountry       string   `json:"target_country,omitempty"`
	IELTSScore          *float64 `json:"ielts_score,omitempty"`
	TOEFLScore          *int     `json:"toefl_score,omitempty"`
	GREScore            *int     `json:"gre_score,omitempty"`
	GMATScore           *int     `json:"gmat_score,omitempty"`
	IncomeRange         string   `json:"income_range,omitempty"`
	NeedBasedPreference bool     `json:"need_based_preference,omitempty"`
	TechnicalSkills     []string `json:"technical_skills,omitempty"`
	SoftSkills          []string `json:"soft_skills,omitempty"`
	Interests           []string `json:"interests,omitempty"`
	HollandCode         string   `json:"holland_code,omitempty"` // RIASEC letters, e.g. "IRC"
}

// Candidate is a career or a scholarship that can be ranked for a profile.
type Candidate struct {
	ID             int64         `json:"id,omitempty"`
	Kind           CandidateKind `json:"kind"`
	Name           string        `json:"name"` // career name or scholarship title
	Description    string        `json:"description,omitempty"`
	Eligibility    string        `json:"eligibility,omitempty"`
	Organization   string        `json:"organization,omitempty"`
	Category       string        `json:"category,omitempty"`
	Country        string        `json:"country,omitempty"`
	FundingAmount  string        `json:"funding_amount,omitempty"`
	Deadline       *time.Time    `json:"deadline,omitempty"`
	Link           string        `json:"link,omitempty"`
	RequiredSkills []string      `json:"required_skills,omitempty"`
	AverageSalary  string        `json:"average_salary,omitempty"`
	GrowthRate     string        `json:"growth_rate,omitempty"`
	IsApproved     bool          `json:"is_approved"`
	IsActive       bool          `json:"is_active"`
}

// Eligible reports whether the candidate may appear in a ranking pool.
func (c Candidate) Eligible() bool {
	return c.IsApproved && c.IsActive
}

// ScoredCandidate is one entry of a ranking result.
type ScoredCandidate struct {
	Rank      int                `json:"rank"` // 1-based
	Candidate Candidate          `json:"candidate"`
	Score     float64            `json:"score"` // always within [0, 1]
	Method    Method             `json:"method"`
	Breakdown map[Method]float64 `json:"breakdown,omitempty"` // raw score of each contributing backend
}

// BackendStatus describes whether a scoring backend can be used.
type BackendStatus struct {
	Engine    CandidateKind `json:"engine"`
	Name      Method        `json:"name"`
	Available bool          `json:"available"`
	Reason    string        `json:"reason,omitempty"`
}
