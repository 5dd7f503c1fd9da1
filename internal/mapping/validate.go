package mapping

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the outcome of validating a single mapping rule. Errors are
// always returned as data; nothing in this package panics at the caller.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func invalid(reason string) Result {
	return Result{Reason: reason}
}

// Indirection points so tests can observe when analysis and compilation
// actually run.
var (
	analyzeRule = IsPotentiallyDangerous
	compileRule = compile
)

// compile builds the anchored, case-insensitive whole-string matcher for a
// trimmed rule. The non-capturing group keeps top-level alternations anchored.
func compile(rule string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)^(?:` + rule + `)$`)
}

// Validate checks one mapping rule in isolation: trim, length, safety screen,
// then a compilation attempt. The safety screen short-circuits before the
// engine is ever invoked, and engine syntax errors are surfaced verbatim.
func Validate(rule string) Result {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return invalid("rule is empty")
	}
	if len(trimmed) > MaxRuleLength {
		return invalid(fmt.Sprintf("rule exceeds the maximum length of %d characters", MaxRuleLength))
	}
	if analyzeRule(trimmed) {
		return invalid("rule contains a potentially dangerous construct (catastrophic backtracking)")
	}
	if _, err := compileRule(trimmed); err != nil {
		return invalid(fmt.Sprintf("invalid pattern: %v", err))
	}
	return Result{Valid: true}
}

// ValidateRules validates a full rule list for one canonical model. The
// returned slice is parallel to the input. ok is false if any rule failed or
// the normalized list exceeds MaxRulesPerModel.
func ValidateRules(rules []string) (results []Result, ok bool) {
	results = make([]Result, len(rules))
	ok = true

	for i, rule := range rules {
		results[i] = Validate(rule)
		if !results[i].Valid {
			ok = false
		}
	}

	if len(NormalizeRules(rules)) > MaxRulesPerModel {
		ok = false
	}

	return results, ok
}

// CompiledMatcher returns the anchored matcher for rule, consulting and
// populating cache. A nil return means the rule is empty, oversized, or
// invalid. A cache hit — including the cached invalid sentinel — returns
// immediately without re-running the safety screen or the compiler; a miss
// stores either the compiled matcher or the nil sentinel. Empty and oversized
// rules never populate the cache.
func CompiledMatcher(rule string, cache *MatcherCache) *regexp.Regexp {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" || len(trimmed) > MaxRuleLength {
		return nil
	}

	if re, hit := cache.Get(trimmed); hit {
		return re
	}

	if analyzeRule(trimmed) {
		cache.Set(trimmed, nil)
		return nil
	}

	re, err := compileRule(trimmed)
	if err != nil {
		cache.Set(trimmed, nil)
		return nil
	}

	cache.Set(trimmed, re)
	return re
}
