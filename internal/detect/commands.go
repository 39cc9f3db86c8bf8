package detect

import (
	"regexp"
	"strings"
)

// SplitCommand parses a command line into an argument vector. Commands are
// executed directly from this vector, never through a shell, so claim text
// or config values can't smuggle shell metacharacters into an invocation.
// Single and double quotes group arguments; no other shell syntax is
// honored.
func SplitCommand(command string) []string {
	var argv []string
	var current strings.Builder
	var quote rune
	pending := false

	for _, r := range command {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			pending = true
		case r == ' ' || r == '\t':
			if pending {
				argv = append(argv, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if pending {
		argv = append(argv, current.String())
	}

	return argv
}

var testCommandPatterns = compilePatterns(
	`\bnpm\s+test\b`,
	`\bnpm\s+run\s+test`,
	`\byarn\s+test\b`,
	`\bpytest\b`,
	`\bpython\s+-m\s+pytest\b`,
	`\bcargo\s+test\b`,
	`\bgo\s+test\b`,
	`\brspec\b`,
	`\bmocha\b`,
	`\bjest\b`,
	`\bvitest\b`,
)

var lintCommandPatterns = compilePatterns(
	`\bnpm\s+run\s+lint\b`,
	`\byarn\s+lint\b`,
	`\beslint\b`,
	`\bruff\s+check\b`,
	`\bpylint\b`,
	`\bflake8\b`,
	`\bmypy\b`,
	`\bcargo\s+clippy\b`,
	`\bgolangci-lint\b`,
	`\brubocop\b`,
)

var buildCommandPatterns = compilePatterns(
	`\bnpm\s+run\s+build\b`,
	`\byarn\s+build\b`,
	`\bcargo\s+build\b`,
	`\bgo\s+build\b`,
	`\bmake\b`,
	`\bmvn\s+compile\b`,
	`\bgradle\s+build\b`,
	`\btsc\b`,
	`\bwebpack\b`,
	`\bvite\s+build\b`,
)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(expr))
	}
	return compiled
}

func matchesAny(patterns []*regexp.Regexp, command string) bool {
	lower := strings.ToLower(command)
	for _, re := range patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// IsTestCommand reports whether a shell command runs tests
func IsTestCommand(command string) bool {
	return matchesAny(testCommandPatterns, command)
}

// IsLintCommand reports whether a shell command runs a linter
func IsLintCommand(command string) bool {
	return matchesAny(lintCommandPatterns, command)
}

// IsBuildCommand reports whether a shell command builds the project
func IsBuildCommand(command string) bool {
	return matchesAny(buildCommandPatterns, command)
}
