// Package detect infers which test, lint, and build commands apply to a
// working directory by probing for ecosystem marker files. Detection only
// reads the filesystem; it never executes project code.
package detect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pelletier/go-toml/v2"
)

// Profile is a detected (command, tool-name) pair for one concern
type Profile struct {
	Command string `json:"command"` // Full command line, argv-split before execution
	Tool    string `json:"tool"`    // Ecosystem name (npm, pytest, cargo, ...)
}

// Detector probes a working directory for tool markers. Probes are memoized
// per process so the test, lint, and build verifiers of one invocation don't
// re-read the same package.json three times; a fresh process still recomputes
// everything, so profiles always reflect the directory as it is now.
type Detector struct {
	probes *gocache.Cache
}

// NewDetector creates a detector with a short-lived probe cache
func NewDetector() *Detector {
	return &Detector{
		probes: gocache.New(30*time.Second, time.Minute),
	}
}

// TestCommand returns the first applicable test profile, or nil.
// Priority: npm test → npm run test:unit → pytest markers → cargo → go →
// ruby (spec over test) → maven → gradle.
func (d *Detector) TestCommand(dir string) *Profile {
	scripts := d.packageScripts(dir)
	if _, ok := scripts["test"]; ok {
		return &Profile{Command: "npm test", Tool: "npm"}
	}
	if _, ok := scripts["test:unit"]; ok {
		return &Profile{Command: "npm run test:unit", Tool: "npm"}
	}

	if d.exists(dir, "pytest.ini") || d.exists(dir, "pyproject.toml") || d.exists(dir, "setup.py") {
		if d.exists(dir, "pytest.ini") {
			return &Profile{Command: "pytest", Tool: "pytest"}
		}
		if py := d.pyProject(dir); py != nil && py.referencesPytest() {
			return &Profile{Command: "pytest", Tool: "pytest"}
		}
		if d.exists(dir, "tests") {
			return &Profile{Command: "pytest", Tool: "pytest"}
		}
	}

	if d.exists(dir, "Cargo.toml") {
		return &Profile{Command: "cargo test", Tool: "cargo"}
	}
	if d.exists(dir, "go.mod") {
		return &Profile{Command: "go test ./...", Tool: "go"}
	}

	if d.exists(dir, "Gemfile") {
		if d.exists(dir, "spec") {
			return &Profile{Command: "bundle exec rspec", Tool: "rspec"}
		}
		if d.exists(dir, "test") {
			return &Profile{Command: "bundle exec rake test", Tool: "rake"}
		}
	}

	if d.exists(dir, "pom.xml") {
		return &Profile{Command: "mvn test", Tool: "maven"}
	}
	if d.exists(dir, "build.gradle") || d.exists(dir, "build.gradle.kts") {
		return &Profile{Command: "./gradlew test", Tool: "gradle"}
	}

	return nil
}

// LintCommand returns the first applicable lint profile, or nil.
// Priority: npm run lint → eslint config → ruff → flake8/pylint → clippy →
// golangci-lint.
func (d *Detector) LintCommand(dir string) *Profile {
	scripts := d.packageScripts(dir)
	if _, ok := scripts["lint"]; ok {
		return &Profile{Command: "npm run lint", Tool: "npm"}
	}
	if d.exists(dir, "package.json") {
		if d.exists(dir, ".eslintrc.js") || d.exists(dir, ".eslintrc.json") || d.exists(dir, "eslint.config.js") {
			return &Profile{Command: "npx eslint .", Tool: "eslint"}
		}
	}

	if d.exists(dir, "ruff.toml") || d.exists(dir, ".ruff.toml") {
		return &Profile{Command: "ruff check .", Tool: "ruff"}
	}
	if py := d.pyProject(dir); py != nil {
		if len(py.Tool.Ruff) > 0 {
			return &Profile{Command: "ruff check .", Tool: "ruff"}
		}
		if len(py.Tool.Flake8) > 0 || len(py.Tool.Pylint) > 0 {
			return &Profile{Command: "flake8 .", Tool: "flake8"}
		}
	}
	if d.exists(dir, ".pylintrc") {
		return &Profile{Command: "pylint .", Tool: "pylint"}
	}
	if d.exists(dir, ".flake8") {
		return &Profile{Command: "flake8", Tool: "flake8"}
	}

	if d.exists(dir, "Cargo.toml") {
		return &Profile{Command: "cargo clippy -- -D warnings", Tool: "clippy"}
	}
	if d.exists(dir, "go.mod") {
		return &Profile{Command: "golangci-lint run", Tool: "golangci-lint"}
	}

	return nil
}

// BuildCommand returns the first applicable build profile, or nil.
// Priority: npm run build/compile → tsconfig → cargo → go → maven → gradle →
// make → cmake.
func (d *Detector) BuildCommand(dir string) *Profile {
	scripts := d.packageScripts(dir)
	if _, ok := scripts["build"]; ok {
		return &Profile{Command: "npm run build", Tool: "npm"}
	}
	if _, ok := scripts["compile"]; ok {
		return &Profile{Command: "npm run compile", Tool: "npm"}
	}

	if d.exists(dir, "tsconfig.json") {
		return &Profile{Command: "npx tsc --noEmit", Tool: "typescript"}
	}
	if d.exists(dir, "Cargo.toml") {
		return &Profile{Command: "cargo build", Tool: "cargo"}
	}
	if d.exists(dir, "go.mod") {
		return &Profile{Command: "go build ./...", Tool: "go"}
	}
	if d.exists(dir, "pom.xml") {
		return &Profile{Command: "mvn compile", Tool: "maven"}
	}
	if d.exists(dir, "build.gradle") || d.exists(dir, "build.gradle.kts") {
		return &Profile{Command: "./gradlew build", Tool: "gradle"}
	}
	if d.exists(dir, "Makefile") {
		return &Profile{Command: "make", Tool: "make"}
	}
	if d.exists(dir, "CMakeLists.txt") {
		return &Profile{Command: "cmake --build .", Tool: "cmake"}
	}

	return nil
}

// exists checks whether a marker file or directory is present
func (d *Detector) exists(dir string, name string) bool {
	key := "stat:" + filepath.Join(dir, name)
	if v, ok := d.probes.Get(key); ok {
		return v.(bool)
	}

	_, err := os.Stat(filepath.Join(dir, name))
	present := err == nil
	d.probes.SetDefault(key, present)
	return present
}

// packageScripts returns the scripts map from package.json, or nil when the
// file is absent or malformed.
func (d *Detector) packageScripts(dir string) map[string]string {
	key := "npm:" + dir
	if v, ok := d.probes.Get(key); ok {
		scripts, _ := v.(map[string]string)
		return scripts
	}

	var scripts map[string]string

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err == nil {
		var pkg struct {
			Scripts map[string]string `json:"scripts"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			scripts = pkg.Scripts
		}
	}

	d.probes.SetDefault(key, scripts)
	return scripts
}

// pyProject holds the tool sections of a parsed pyproject.toml
type pyProject struct {
	Tool struct {
		Ruff   map[string]any `toml:"ruff"`
		Flake8 map[string]any `toml:"flake8"`
		Pylint map[string]any `toml:"pylint"`
		Pytest struct {
			IniOptions map[string]any `toml:"ini_options"`
		} `toml:"pytest"`
	} `toml:"tool"`

	raw []byte
}

// referencesPytest reports whether the project configures or depends on
// pytest. The raw-bytes fallback catches pytest listed only as a dependency.
func (p *pyProject) referencesPytest() bool {
	if len(p.Tool.Pytest.IniOptions) > 0 {
		return true
	}
	return bytes.Contains(p.raw, []byte("pytest"))
}

// pyProject parses pyproject.toml, or returns nil when absent or malformed
func (d *Detector) pyProject(dir string) *pyProject {
	key := "pyproject:" + dir
	if v, ok := d.probes.Get(key); ok {
		py, _ := v.(*pyProject)
		return py
	}

	var py *pyProject

	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err == nil {
		parsed := &pyProject{raw: data}
		if toml.Unmarshal(data, parsed) == nil {
			py = parsed
		}
	}

	d.probes.SetDefault(key, py)
	return py
}
