// Package features turns a student profile into model inputs: a numeric
// feature map for the career classifiers and a free-text description for
// the scholarship matchers. Every function here is pure.
package features

import (
	"slices"
	"strings"

	"github.com/garima1kafle/path2prep/schema"
)

// Defaults used when the profile leaves a field empty.
const (
	DefaultGPA    = 3.0
	DefaultDegree = 1.0
)

// Known vocabularies of the training data.
var (
	TechnicalSkills = []string{
		"Python", "Java", "JavaScript", "SQL", "Machine Learning",
		"Data Analysis", "Web Development", "Mobile Development",
		"Cloud Computing", "Statistics",
	}
	SoftSkills = []string{
		"Communication", "Leadership", "Problem Solving", "Teamwork",
		"Critical Thinking", "Creativity", "Time Management",
	}
	Interests   = []string{"Technology", "Research", "Business", "Arts", "Healthcare", "Education"}
	HollandCode = []string{"R", "I", "A", "S", "E", "C"}
)

// degreeEncoding is the ordinal encoding of degree levels.
var degreeEncoding = map[string]float64{
	"Bachelor's": 1,
	"Master's":   2,
	"PhD":        3,
}

// DefaultColumns returns the predeclared feature columns in training order.
func DefaultColumns() []string {
	cols := make([]string, 0, 2+len(TechnicalSkills)+len(SoftSkills)+len(Interests)+len(HollandCode))
	cols = append(cols, "gpa", "degree_level_encoded")
	for _, s := range TechnicalSkills {
		cols = append(cols, skillColumn(s))
	}
	for _, s := range SoftSkills {
		cols = append(cols, skillColumn(s))
	}
	for _, i := range Interests {
		cols = append(cols, interestColumn(i))
	}
	for _, h := range HollandCode {
		cols = append(cols, "holland_"+h)
	}
	return cols
}

// ExtractFeatures returns the named features of a profile.
// A nil profile yields nil so callers can take their default path.
func ExtractFeatures(p *schema.Profile) map[string]float64 {
	if p == nil {
		return nil
	}
	features := make(map[string]float64, len(DefaultColumns()))

	features["gpa"] = DefaultGPA
	if p.GPA != nil && *p.GPA != 0 {
		features["gpa"] = *p.GPA
	}
	features["degree_level_encoded"] = DefaultDegree
	if v, ok := degreeEncoding[p.DegreeLevel]; ok {
		features["degree_level_encoded"] = v
	}

	for _, s := range TechnicalSkills {
		features[skillColumn(s)] = flag(slices.Contains(p.TechnicalSkills, s))
	}
	for _, s := range SoftSkills {
		features[skillColumn(s)] = flag(slices.Contains(p.SoftSkills, s))
	}
	for _, i := range Interests {
		features[interestColumn(i)] = flag(slices.Contains(p.Interests, i))
	}
	for _, h := range HollandCode {
		features["holland_"+h] = float64(strings.Count(p.HollandCode, h))
	}
	return features
}

// Vectorize lays features out in column order. Unknown columns are 0.
// When columns is empty, DefaultColumns is used.
func Vectorize(features map[string]float64, columns []string) []float64 {
	if len(features) == 0 {
		return nil
	}
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	vec := make([]float64, len(columns))
	for i, col := range columns {
		vec[i] = features[col]
	}
	return vec
}

func skillColumn(skill string) string {
	return "has_" + columnSuffix(skill)
}

func interestColumn(interest string) string {
	return "interest_" + columnSuffix(interest)
}

func columnSuffix(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
