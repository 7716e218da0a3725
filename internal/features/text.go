package features

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/garima1kafle/path2prep/schema"
	"golang.org/x/text/unicode/norm"
)

// ProfileText describes a profile in plain words for text matching.
// Fields are emitted in a fixed order and empty fields are left out entirely.
func ProfileText(p *schema.Profile) string {
	if p == nil {
		return ""
	}
	var parts []string
	add := func(prefix, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, prefix+value)
		}
	}

	add("degree level ", p.DegreeLevel)
	add("major in ", p.Major)
	if p.GPA != nil && *p.GPA != 0 {
		add("GPA ", formatFloat(*p.GPA))
	}
	add("from ", p.Country)
	add("targeting ", p.TargetCountry)

	if p.IELTSScore != nil && *p.IELTSScore != 0 {
		add("IELTS score ", formatFloat(*p.IELTSScore))
	}
	addInt := func(prefix string, v *int) {
		if v != nil && *v != 0 {
			add(prefix, strconv.Itoa(*v))
		}
	}
	addInt("TOEFL score ", p.TOEFLScore)
	addInt("GRE score ", p.GREScore)
	addInt("GMAT score ", p.GMATScore)

	add("skills: ", strings.Join(p.TechnicalSkills, " "))
	add("skills: ", strings.Join(p.SoftSkills, " "))
	add("interested in: ", strings.Join(p.Interests, " "))

	if p.NeedBasedPreference {
		parts = append(parts, "financial need based")
	}
	add("income range ", p.IncomeRange)

	return strings.Join(parts, " ")
}

// CandidateText joins the name, description and eligibility of a candidate.
func CandidateText(c schema.Candidate) string {
	var parts []string
	for _, s := range []string{c.Name, c.Description, c.Eligibility} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Preprocess prepares text for lexical matching. It NFKC-normalizes and
// lowercases the text, drops every rune outside [a-z0-9] and whitespace, then
// collapses whitespace runs. "Master's" becomes "masters".
func Preprocess(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(norm.NFKC.String(text))
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
