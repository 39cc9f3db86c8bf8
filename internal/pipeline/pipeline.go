// Package pipeline wires the verification flow: recent assistant text in,
// block/allow decision out, with the session state machine gating and
// recording the process.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/claimcheck/claimcheck/internal/claims"
	"github.com/claimcheck/claimcheck/internal/hook"
	"github.com/claimcheck/claimcheck/internal/model"
	"github.com/claimcheck/claimcheck/internal/state"
	"github.com/claimcheck/claimcheck/internal/transcript"
	"github.com/claimcheck/claimcheck/internal/verify"
)

// Pipeline runs one verification pass per invocation
type Pipeline struct {
	cfg        *model.Config
	log        *zap.Logger
	recognizer *claims.Recognizer
	registry   *verify.Registry
	store      *state.Store
}

// New creates a pipeline from its collaborators
func New(cfg *model.Config, log *zap.Logger, store *state.Store) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		log:        log,
		recognizer: claims.NewRecognizer(),
		registry:   verify.NewRegistry(log),
		store:      store,
	}
}

// claimReport is one claim's result, kept for the user-facing reason string
type claimReport struct {
	kind    model.ClaimKind
	message string
	skipped bool
}

// Run executes the verification pass and returns a block decision, or nil
// to allow completion. It never returns an error: any internal fault is
// recovered into "allow", because a broken verifier must never permanently
// block a user.
func (p *Pipeline) Run(in hook.Input) (decision *hook.Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("verification panic, allowing completion", zap.Any("panic", rec))
			decision = nil
		}
	}()

	p.log.Info("verification started", zap.String("session_id", in.SessionID))

	// Opportunistic sweep of aged-out session records.
	maxAge := time.Duration(p.cfg.Behavior.CleanupDays) * 24 * time.Hour
	if removed, err := p.store.Cleanup(maxAge); err != nil {
		p.log.Warn("state cleanup failed", zap.Error(err))
	} else if removed > 0 {
		p.log.Debug("removed aged session records", zap.Int("count", removed))
	}

	sess := p.store.Load(in.SessionID)

	// Re-entrancy guard: verification triggering itself must short-circuit.
	if err := sess.Activate(); err != nil {
		p.log.Warn("verification already active, allowing to prevent loop",
			zap.String("session_id", in.SessionID))
		return nil
	}
	defer func() {
		if err := sess.Release(); err != nil {
			p.log.Error("failed to release session", zap.Error(err))
		}
	}()

	// Retry ceiling: an assistant must never be stuck in an unbreakable
	// verification loop.
	maxRetries := p.cfg.Behavior.MaxRetries
	if sess.Attempts() >= maxRetries {
		p.log.Warn("max retries reached, allowing completion",
			zap.Int("max_retries", maxRetries))
		return nil
	}

	attempt, err := sess.IncrementAttempts()
	if err != nil {
		p.log.Warn("failed to persist attempt counter", zap.Error(err))
	}
	p.log.Info("verification attempt",
		zap.Int("attempt", attempt), zap.Int("max_retries", maxRetries))

	if in.TranscriptPath == "" {
		p.log.Info("no transcript path provided, nothing to verify")
		return nil
	}

	text, err := transcript.RecentAssistantText(in.TranscriptPath, p.cfg.Behavior.TranscriptMessages)
	if err != nil {
		p.log.Warn("transcript unreadable, allowing completion", zap.Error(err))
		return nil
	}
	if text == "" {
		p.log.Info("no assistant text found in transcript")
		return nil
	}

	extracted := p.recognizer.Parse(text, p.cfg.Behavior.ConfidenceThreshold)
	if len(extracted) == 0 {
		p.log.Info("no verifiable claims found")
		return nil
	}
	p.log.Info("claims extracted", zap.Int("count", len(extracted)))

	var failed, passed []claimReport

	for _, claim := range extracted {
		p.log.Debug("verifying claim",
			zap.String("claim_type", string(claim.Kind)),
			zap.String("text", claim.Text))

		outcome := p.registry.Verify(claim.Kind, claim.Value, in.Cwd, p.cfg)

		if err := sess.AddVerification(model.Verification{
			Kind:      claim.Kind,
			Text:      claim.Text,
			Passed:    outcome.Passed,
			Message:   outcome.Message,
			Timestamp: time.Now().UTC(),
			Details:   outcome.Details,
		}); err != nil {
			p.log.Warn("failed to record verification", zap.Error(err))
		}

		report := claimReport{kind: claim.Kind, message: outcome.Message, skipped: outcome.Skipped()}
		switch {
		case outcome.Skipped():
			p.log.Info("claim skipped",
				zap.String("claim_type", string(claim.Kind)),
				zap.String("reason", outcome.SkipReason()))
			passed = append(passed, report)
		case outcome.Passed:
			p.log.Info("claim verified", zap.String("claim_type", string(claim.Kind)))
			passed = append(passed, report)
		default:
			p.log.Warn("claim failed",
				zap.String("claim_type", string(claim.Kind)),
				zap.String("message", outcome.Message))
			failed = append(failed, report)
		}
	}

	if len(failed) > 0 && p.cfg.Behavior.BlockOnFailure {
		p.log.Warn("blocking completion", zap.Int("failed_claims", len(failed)))
		return &hook.Decision{
			Decision: "block",
			Reason:   buildReason(failed, passed),
		}
	}

	p.log.Info("allowing completion",
		zap.Int("passed_claims", len(passed)), zap.Int("failed_claims", len(failed)))
	return nil
}

// buildReason enumerates every failed claim and, for transparency, the
// claims that passed or were skipped.
func buildReason(failed, passed []claimReport) string {
	var b strings.Builder
	b.WriteString("Claim verification failed:\n")
	for _, fc := range failed {
		fmt.Fprintf(&b, "- %s: %s\n", fc.kind, fc.message)
	}

	if len(passed) > 0 {
		b.WriteString("\nPassed verifications:\n")
		for _, pc := range passed {
			fmt.Fprintf(&b, "- %s: %s\n", pc.kind, pc.message)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
