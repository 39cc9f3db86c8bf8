package claims

import (
	"regexp"

	"github.com/claimcheck/claimcheck/internal/model"
)

// ruleSpec is one declarative (pattern, confidence) entry for a claim kind.
// Patterns are matched case-insensitively and multi-line. A pattern with a
// capture group contributes group 1 as the claim's extracted value.
type ruleSpec struct {
	expr       string
	confidence float64
}

// ruleTable is the fixed, auditable claim-detection table. Order matters:
// within a kind, earlier entries are tried first, and for singleton kinds
// the first match wins.
var ruleTable = map[model.ClaimKind][]ruleSpec{
	model.ClaimFileCreated: {
		// High confidence - explicit creation statements
		{"(?:I've |I have |I )?(?:created|wrote|added|generated) (?:a )?(?:new )?(?:the )?(?:file )?(?:called |named )?[`'\"]?([^\\s`'\",:]+\\.[a-zA-Z0-9]+)[`'\"]?", 0.9},
		{"(?:created|wrote|written) (?:to )?(?:the )?(?:file )?[`'\"]?([^\\s`'\",:]+\\.[a-zA-Z0-9]+)[`'\"]?", 0.9},
		// Medium confidence - references to files being done
		{"[`'\"]([^\\s`'\"]+\\.[a-zA-Z0-9]+)[`'\"]? (?:has been |is now )?(?:created|written|saved)", 0.8},
		{"saved (?:the )?(?:changes )?(?:to )?[`'\"]?([^\\s`'\"]+\\.[a-zA-Z0-9]+)[`'\"]?", 0.7},
		// File written/created passively
		{"file [`'\"]?([^\\s`'\",:]+\\.[a-zA-Z0-9]+)[`'\"]? (?:was |has been )?(?:created|written|saved)", 0.85},
	},
	model.ClaimTestsPass: {
		{"(?:all )?tests? (?:are )?(?:now )?pass(?:ing|ed)?", 0.9},
		{"tests? (?:run |completed? )?successfully", 0.9},
		{"all (?:\\d+ )?tests? pass(?:ed)?", 0.95},
		{"tests? (?:should )?(?:now )?work", 0.7},
		{"(?:the )?tests? (?:are )?(?:now )?green", 0.8},
	},
	model.ClaimLintClean: {
		{"no (?:lint(?:ing)? )?(?:errors?|issues?|warnings?)", 0.9},
		{"lint(?:ing)? (?:is )?(?:now )?(?:clean|passing|passes)", 0.9},
		{"(?:all )?lint(?:ing)? (?:checks? )?pass(?:ed|ing)?", 0.9},
		{"code (?:is )?(?:now )?lint(?:-)?free", 0.8},
		{"(?:eslint|ruff|pylint|clippy) (?:shows? )?no (?:errors?|issues?)", 0.85},
	},
	model.ClaimBuildSuccess: {
		{"build (?:succeeded|successful(?:ly)?|completed? (?:successfully)?|passes)", 0.9},
		{"(?:compiled?|built) (?:successfully|without errors?)", 0.9},
		{"(?:the )?(?:project|app|code) (?:now )?builds?(?: successfully)?", 0.85},
		{"(?:npm|yarn|cargo|make|gradle) (?:run )?build (?:succeeded|passed|completed)", 0.9},
		{"no (?:build|compilation) errors?", 0.8},
	},
	model.ClaimBugFixed: {
		{"(?:I've |I have |I )?(?:fixed|resolved|addressed|corrected) (?:the )?(?:bug|issue|problem|error)", 0.9},
		{"(?:the )?(?:bug|issue|problem|error) (?:is )?(?:now )?(?:fixed|resolved|addressed|corrected)", 0.9},
		{"(?:bug|issue|problem) (?:should be )?(?:now )?(?:fixed|resolved)", 0.75},
		{"(?:this )?(?:fix|change|update) (?:should )?(?:resolve|fix|address)", 0.7},
	},
}

// rule is a compiled table entry
type rule struct {
	re         *regexp.Regexp
	confidence float64
}

// compileTable compiles the declarative table once at package init. A
// malformed pattern is a programming error and panics here, never at
// recognition time.
func compileTable() map[model.ClaimKind][]rule {
	compiled := make(map[model.ClaimKind][]rule, len(ruleTable))
	for kind, specs := range ruleTable {
		rules := make([]rule, 0, len(specs))
		for _, spec := range specs {
			rules = append(rules, rule{
				re:         regexp.MustCompile("(?im)" + spec.expr),
				confidence: spec.confidence,
			})
		}
		compiled[kind] = rules
	}
	return compiled
}
