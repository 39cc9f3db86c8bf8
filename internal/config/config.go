// Package config loads the layered plugin configuration: built-in defaults,
// an optional project override under the working directory's .claude
// directory, and CLAIMCHECK_* environment variables, highest last.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/claimcheck/claimcheck/internal/model"
)

// projectConfigNames are tried in order inside <cwd>/.claude
var projectConfigNames = []string{"claimcheck.yaml", "claimcheck.yml", "claimcheck.json"}

// Load returns the effective configuration for a working directory. A
// missing project override is normal; a malformed one is an error the
// caller may choose to ignore (the entry points fall back to defaults).
func Load(cwd string) (*model.Config, error) {
	v := viper.New()
	setDefaults(v, model.DefaultConfig())

	v.SetEnvPrefix("CLAIMCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := findProjectConfig(cwd); path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return model.DefaultConfig(), fmt.Errorf("merge project config %s: %w", path, err)
		}
	}

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return model.DefaultConfig(), fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func findProjectConfig(cwd string) string {
	if cwd == "" {
		return ""
	}
	for _, name := range projectConfigNames {
		path := filepath.Join(cwd, ".claude", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setDefaults registers every key of the default config so project files
// only need to mention what they change.
func setDefaults(v *viper.Viper, def *model.Config) {
	v.SetDefault("debug", def.Debug)
	v.SetDefault("behavior.block_on_failure", def.Behavior.BlockOnFailure)
	v.SetDefault("behavior.max_retries", def.Behavior.MaxRetries)
	v.SetDefault("behavior.confidence_threshold", def.Behavior.ConfidenceThreshold)
	v.SetDefault("behavior.cleanup_days", def.Behavior.CleanupDays)
	v.SetDefault("behavior.transcript_messages", def.Behavior.TranscriptMessages)

	for kind, vc := range def.Verifiers {
		prefix := "verifiers." + kind + "."
		v.SetDefault(prefix+"timeout", vc.Timeout)
		if vc.Command != "" {
			v.SetDefault(prefix+"command", vc.Command)
		}
		if vc.CommitWindow > 0 {
			v.SetDefault(prefix+"commit_window", vc.CommitWindow)
		}
	}
}
