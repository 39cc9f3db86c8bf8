package model

import "time"

// Outcome is the result of checking one claim against ground truth
type Outcome struct {
	Passed  bool           `json:"passed"`
	Message string         `json:"message"`           // Human-readable summary
	Details map[string]any `json:"details,omitempty"` // Diagnostic key/value detail
}

// Skipped reports whether the check could not meaningfully run. A skipped
// outcome is always passing: absence of a check is not evidence of a false
// claim.
func (o Outcome) Skipped() bool {
	v, _ := o.Details["skipped"].(bool)
	return v
}

// SkipReason returns the reason tag for a skipped outcome ("disabled",
// "no_test_framework", ...) or an empty string.
func (o Outcome) SkipReason() string {
	v, _ := o.Details["reason"].(string)
	return v
}

// Verification is an Outcome bound to the claim that produced it, as recorded
// in the session log.
type Verification struct {
	Kind      ClaimKind      `json:"claim_type"`
	Text      string         `json:"claim_text"`
	Passed    bool           `json:"passed"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}
