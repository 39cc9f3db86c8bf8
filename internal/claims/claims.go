package claims

import (
	"regexp"
	"strings"

	"github.com/claimcheck/claimcheck/internal/model"
)

// Recognizer extracts verifiable claims from assistant-authored text
type Recognizer struct {
	rules map[model.ClaimKind][]rule
}

// NewRecognizer creates a recognizer backed by the fixed pattern table
func NewRecognizer() *Recognizer {
	return &Recognizer{rules: compileTable()}
}

// Parse extracts claims whose pattern confidence is at or above threshold.
// It is a pure function of its inputs: no side effects, and claim-free text
// yields an empty result, never an error.
//
// Deduplication: file claims are unique per extracted path, so several
// distinct file claims can coexist; every other kind keeps only the first
// match per pass.
func (r *Recognizer) Parse(text string, threshold float64) []model.Claim {
	var claims []model.Claim

	lower := strings.ToLower(text)

	for _, kind := range model.Kinds() {
		// File patterns run against the original text so extracted paths
		// keep their casing; everything else matches the lowered text.
		searchText := lower
		if kind == model.ClaimFileCreated {
			searchText = text
		}

		seen := make(map[string]bool)
		matched := false

		for _, rl := range r.rules[kind] {
			// Below-threshold entries are skipped before matching, not
			// filtered afterwards.
			if rl.confidence < threshold {
				continue
			}
			if matched && !kind.MultiValued() {
				break
			}

			for _, m := range rl.re.FindAllStringSubmatch(searchText, -1) {
				value := ""
				if len(m) > 1 {
					value = m[1]
				}

				if kind.MultiValued() {
					if value != "" && seen[value] {
						continue
					}
				} else if matched {
					break
				}

				claims = append(claims, model.Claim{
					Kind:       kind,
					Text:       m[0],
					Confidence: rl.confidence,
					Value:      value,
				})
				matched = true
				if value != "" {
					seen[value] = true
				}
			}
		}
	}

	return claims
}

// Summary groups claim values (or matched text when no value was extracted)
// by kind, dropping duplicates.
func Summary(claims []model.Claim) map[model.ClaimKind][]string {
	summary := make(map[model.ClaimKind][]string)

	for _, claim := range claims {
		value := claim.Value
		if value == "" {
			value = claim.Text
		}
		if contains(summary[claim.Kind], value) {
			continue
		}
		summary[claim.Kind] = append(summary[claim.Kind], value)
	}

	return summary
}

var pathPatterns = []*regexp.Regexp{
	// Paths in backticks or quotes
	regexp.MustCompile("`([^\\s`]+\\.[a-zA-Z0-9]+)`"),
	regexp.MustCompile(`"([^\s"]+\.[a-zA-Z0-9]+)"`),
	regexp.MustCompile(`'([^\s']+\.[a-zA-Z0-9]+)'`),
	// Unix-style absolute and relative paths
	regexp.MustCompile(`(?m)(?:^|[\s(])(/[^\s:,)]+\.[a-zA-Z0-9]+)`),
	regexp.MustCompile(`(?m)(?:^|[\s(])(\./[^\s:,)]+\.[a-zA-Z0-9]+)`),
}

// ExtractFilePaths mines file paths mentioned anywhere in text, preserving
// first-seen order.
func ExtractFilePaths(text string) []string {
	seen := make(map[string]bool)
	var paths []string

	for _, re := range pathPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			path := m[1]
			if seen[path] {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		}
	}

	return paths
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
