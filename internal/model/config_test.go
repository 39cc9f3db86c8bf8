package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifier_DefaultsApplied(t *testing.T) {
	cfg := &Config{Verifiers: map[string]VerifierConfig{
		"tests_pass": {Command: "make check"},
		"bug_fixed":  {Timeout: 2 * time.Second},
	}}

	tests := cfg.Verifier(ClaimTestsPass)
	assert.Equal(t, "make check", tests.Command)
	assert.Equal(t, 60*time.Second, tests.Timeout)

	bug := cfg.Verifier(ClaimBugFixed)
	assert.Equal(t, 2*time.Second, bug.Timeout)
	assert.Equal(t, 5*time.Minute, bug.CommitWindow)

	// Absent entries fall back entirely to defaults.
	assert.Equal(t, 30*time.Second, cfg.Verifier(ClaimLintClean).Timeout)
	assert.Equal(t, 120*time.Second, cfg.Verifier(ClaimBuildSuccess).Timeout)
}

func TestVerifierConfig_IsEnabled(t *testing.T) {
	assert.True(t, VerifierConfig{}.IsEnabled())

	on, off := true, false
	assert.True(t, VerifierConfig{Enabled: &on}.IsEnabled())
	assert.False(t, VerifierConfig{Enabled: &off}.IsEnabled())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Behavior.BlockOnFailure)
	assert.Equal(t, 3, cfg.Behavior.MaxRetries)
	assert.Equal(t, 0.7, cfg.Behavior.ConfidenceThreshold)
	assert.Len(t, cfg.Verifiers, len(Kinds()))
	for _, kind := range Kinds() {
		assert.True(t, cfg.Verifier(kind).IsEnabled(), "%s", kind)
		assert.Positive(t, cfg.Verifier(kind).Timeout, "%s", kind)
	}
}

func TestClaimKind_MultiValued(t *testing.T) {
	assert.True(t, ClaimFileCreated.MultiValued())
	for _, kind := range Kinds()[1:] {
		assert.False(t, kind.MultiValued(), "%s", kind)
	}
}

func TestOutcome_Skipped(t *testing.T) {
	skipped := Outcome{Passed: true, Details: map[string]any{"skipped": true, "reason": "no_linter"}}
	assert.True(t, skipped.Skipped())
	assert.Equal(t, "no_linter", skipped.SkipReason())

	plain := Outcome{Passed: true}
	assert.False(t, plain.Skipped())
	assert.Empty(t, plain.SkipReason())
}
