package model

// ClaimKind categorizes the nature of an assertion
type ClaimKind string

const (
	ClaimFileCreated  ClaimKind = "file_created"  // A file was created or written
	ClaimTestsPass    ClaimKind = "tests_pass"    // The test suite passes
	ClaimLintClean    ClaimKind = "lint_clean"    // Linting reports no issues
	ClaimBuildSuccess ClaimKind = "build_success" // The project builds cleanly
	ClaimBugFixed     ClaimKind = "bug_fixed"     // A bug or issue was fixed
)

// Kinds returns the closed set of claim kinds in recognition order.
// Recognition and verification both iterate in this order so output
// is deterministic across runs.
func Kinds() []ClaimKind {
	return []ClaimKind{
		ClaimFileCreated,
		ClaimTestsPass,
		ClaimLintClean,
		ClaimBuildSuccess,
		ClaimBugFixed,
	}
}

// MultiValued reports whether a kind supports several distinct claims per
// recognition pass. Only file claims carry a distinguishing payload; every
// other kind is singleton-per-pass.
func (k ClaimKind) MultiValued() bool {
	return k == ClaimFileCreated
}

// Claim represents a verifiable assertion extracted from assistant output
type Claim struct {
	Kind       ClaimKind `json:"kind"`            // Which claim category matched
	Text       string    `json:"text"`            // The matched text itself
	Confidence float64   `json:"confidence"`      // Pattern confidence weight in [0,1]
	Value      string    `json:"value,omitempty"` // Extracted payload (e.g., file path)
}
