package mapping

import (
	"regexp"
	"sort"
	"strings"
)

// Credential is one access key's whitelist as supplied by the caller: an
// opaque identifier, display metadata, and the allowed model names to match
// against. The engine only reads it.
type Credential struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	AllowedModels []string `json:"allowed_models"`
}

// PreviewResult aggregates whitelist matches for one rule list.
type PreviewResult struct {
	// RuleCounts is parallel to the input rules: distinct names matched by
	// that rule, deduplicated per credential and summed across credentials.
	RuleCounts []int `json:"rule_counts"`

	// MatchedNames maps credential ID to the sorted distinct names matched
	// by any rule.
	MatchedNames map[string][]string `json:"matched_names"`

	// Total is the sum of per-credential distinct match counts. A name
	// matched by two rules for the same credential counts once.
	Total int `json:"total"`
}

// Matches reports whether one mapping rule matches a candidate name.
// Oversized names never match, regardless of the rule. An exact
// case-insensitive comparison runs first and succeeds even when the rule is
// not valid regex syntax; only then is the compiled matcher consulted.
func Matches(rule, name string, cache *MatcherCache) bool {
	if len(name) > MaxCandidateNameLength {
		return false
	}

	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return false
	}

	if strings.EqualFold(trimmed, name) {
		return true
	}

	re := CompiledMatcher(trimmed, cache)
	if re == nil {
		return false
	}

	return matchString(re, name)
}

// matchString guards a single evaluation. A failure of any kind counts as no
// match for that (rule, name) pair so one bad pairing cannot abort a bulk pass.
func matchString(re *regexp.Regexp, name string) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()
	return re.MatchString(name)
}

// RuleMatches reports whether any rule in the list matches the name.
func RuleMatches(rules []string, name string, cache *MatcherCache) bool {
	for _, rule := range rules {
		if Matches(rule, name, cache) {
			return true
		}
	}
	return false
}

// Preview evaluates every rule against every credential whitelist. Results
// are deduplicated by set per credential, so the output is deterministic
// regardless of input iteration order. Invalid rules contribute zero matches.
func Preview(rules []string, credentials []Credential, cache *MatcherCache) PreviewResult {
	result := PreviewResult{
		RuleCounts:   make([]int, len(rules)),
		MatchedNames: make(map[string][]string, len(credentials)),
	}

	for _, cred := range credentials {
		credMatched := make(map[string]struct{})

		for i, rule := range rules {
			ruleMatched := make(map[string]struct{})

			for _, name := range cred.AllowedModels {
				if Matches(rule, name, cache) {
					ruleMatched[name] = struct{}{}
					credMatched[name] = struct{}{}
				}
			}

			result.RuleCounts[i] += len(ruleMatched)
		}

		names := make([]string, 0, len(credMatched))
		for name := range credMatched {
			names = append(names, name)
		}
		sort.Strings(names)

		result.MatchedNames[cred.ID] = names
		result.Total += len(names)
	}

	return result
}
