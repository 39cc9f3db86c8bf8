// Package verify checks extracted claims against ground truth: the
// filesystem, subprocess exit codes, and version-control state. Each claim
// kind has one verifier; verifiers are independent and side-effect-free
// toward each other.
package verify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/claimcheck/claimcheck/internal/detect"
	"github.com/claimcheck/claimcheck/internal/model"
)

// Func verifies one claim kind. value is the claim's extracted payload (may
// be empty), dir the working directory, cfg the per-kind configuration.
type Func func(value, dir string, cfg model.VerifierConfig) model.Outcome

// Registry maps claim kinds to verifiers and isolates their failures
type Registry struct {
	verifiers map[model.ClaimKind]Func
	detector  *detect.Detector
	log       *zap.Logger
}

// NewRegistry creates a registry with the built-in verifiers registered
func NewRegistry(log *zap.Logger) *Registry {
	r := &Registry{
		detector: detect.NewDetector(),
		log:      log,
	}
	r.verifiers = map[model.ClaimKind]Func{
		model.ClaimFileCreated:  verifyFileExists,
		model.ClaimTestsPass:    r.verifyTestsPass,
		model.ClaimLintClean:    r.verifyLintClean,
		model.ClaimBuildSuccess: r.verifyBuildSuccess,
		model.ClaimBugFixed:     verifyChangesMade,
	}
	return r
}

// Register installs or replaces the verifier for a kind
func (r *Registry) Register(kind model.ClaimKind, fn Func) {
	r.verifiers[kind] = fn
}

// Verify dispatches a claim to its verifier.
//
// An unregistered kind yields a passing skip: unknown claim kinds must never
// block completion. A disabled verifier yields a passing skip tagged
// "disabled". A verifier panic is recovered into a failing outcome so a
// verifier bug can neither crash the host nor silently pass.
func (r *Registry) Verify(kind model.ClaimKind, value, dir string, cfg *model.Config) (out model.Outcome) {
	verifier, ok := r.verifiers[kind]
	if !ok {
		return skip(fmt.Sprintf("No verifier for claim type: %s", kind), "no_verifier")
	}

	vcfg := cfg.Verifier(kind)
	if !vcfg.IsEnabled() {
		return skip(fmt.Sprintf("Verifier disabled for: %s", kind), "disabled")
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("verifier panic",
				zap.String("claim_type", string(kind)),
				zap.Any("panic", rec))
			out = fail(fmt.Sprintf("Verification error: %v", rec), map[string]any{
				"error":      fmt.Sprint(rec),
				"claim_type": string(kind),
			})
		}
	}()

	return verifier(value, dir, vcfg)
}

func pass(message string, details map[string]any) model.Outcome {
	return model.Outcome{Passed: true, Message: message, Details: details}
}

func fail(message string, details map[string]any) model.Outcome {
	return model.Outcome{Passed: false, Message: message, Details: details}
}

// skip is a passing outcome meaning "no applicable check could run". The
// reason tag keeps "disabled" distinguishable from "no applicable tool".
func skip(message, reason string) model.Outcome {
	return model.Outcome{
		Passed:  true,
		Message: message,
		Details: map[string]any{"skipped": true, "reason": reason},
	}
}
