package model

import "time"

// Config is the complete plugin configuration, merged from built-in
// defaults, an optional project override, environment variables, and flags
type Config struct {
	Debug     bool                      `json:"debug" yaml:"debug" mapstructure:"debug"`
	Behavior  BehaviorConfig            `json:"behavior" yaml:"behavior" mapstructure:"behavior"`
	Verifiers map[string]VerifierConfig `json:"verifiers" yaml:"verifiers" mapstructure:"verifiers"`
}

// BehaviorConfig holds the pipeline policy knobs
type BehaviorConfig struct {
	BlockOnFailure      bool    `json:"block_on_failure" yaml:"block_on_failure" mapstructure:"block_on_failure"`
	MaxRetries          int     `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	CleanupDays         int     `json:"cleanup_days" yaml:"cleanup_days" mapstructure:"cleanup_days"`
	TranscriptMessages  int     `json:"transcript_messages" yaml:"transcript_messages" mapstructure:"transcript_messages"`
}

// VerifierConfig configures a single claim-kind verifier. Enabled is a
// pointer so a project override can turn a verifier off while an absent
// entry still defaults to on.
type VerifierConfig struct {
	Enabled      *bool         `json:"enabled,omitempty" yaml:"enabled,omitempty" mapstructure:"enabled"`
	Timeout      time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`
	Command      string        `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`
	CommitWindow time.Duration `json:"commit_window,omitempty" yaml:"commit_window,omitempty" mapstructure:"commit_window"`
}

// IsEnabled reports whether the verifier is enabled (default true).
func (v VerifierConfig) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// Verifier returns the configuration for a claim kind with defaults applied
// for any field the merged config leaves unset.
func (c *Config) Verifier(kind ClaimKind) VerifierConfig {
	def := defaultVerifier(kind)
	cfg, ok := c.Verifiers[string(kind)]
	if !ok {
		return def
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CommitWindow <= 0 {
		cfg.CommitWindow = def.CommitWindow
	}
	return cfg
}

func defaultVerifier(kind ClaimKind) VerifierConfig {
	cfg := VerifierConfig{Timeout: 60 * time.Second}
	switch kind {
	case ClaimLintClean:
		cfg.Timeout = 30 * time.Second
	case ClaimBuildSuccess:
		cfg.Timeout = 120 * time.Second
	case ClaimBugFixed:
		// Per-git-command budget plus the already-committed fallback window.
		cfg.Timeout = 10 * time.Second
		cfg.CommitWindow = 5 * time.Minute
	}
	return cfg
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	verifiers := make(map[string]VerifierConfig, len(Kinds()))
	for _, kind := range Kinds() {
		verifiers[string(kind)] = defaultVerifier(kind)
	}

	return &Config{
		Debug: false,
		Behavior: BehaviorConfig{
			BlockOnFailure:      true,
			MaxRetries:          3,
			ConfidenceThreshold: 0.7,
			CleanupDays:         30,
			TranscriptMessages:  3,
		},
		Verifiers: verifiers,
	}
}
