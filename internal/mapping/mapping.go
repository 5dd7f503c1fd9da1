// Package mapping implements the model-name mapping engine: user-authored
// rules that map a canonical gateway model ID to the spellings a provider or
// key whitelist uses for it. Rules are evaluated as anchored, case-insensitive
// regular expressions after passing a heuristic safety screen, and compiled
// matchers are held in a bounded LRU cache so repeated preview passes over
// large whitelists stay cheap.
package mapping

import "strings"

const (
	// MaxRulesPerModel caps how many mapping rules one canonical model may carry.
	MaxRulesPerModel = 50

	// MaxRuleLength caps the trimmed length of a single rule.
	MaxRuleLength = 200

	// MaxCandidateNameLength is the hard ceiling for candidate model names;
	// longer names are excluded from matching entirely.
	MaxCandidateNameLength = 200

	// DefaultMatcherCacheSize is the default capacity of a MatcherCache.
	DefaultMatcherCacheSize = 100
)

// NormalizeRules trims every rule, drops entries that are empty after
// trimming, and removes duplicates while preserving first-seen order.
func NormalizeRules(rules []string) []string {
	seen := make(map[string]struct{}, len(rules))
	out := make([]string, 0, len(rules))

	for _, rule := range rules {
		trimmed := strings.TrimSpace(rule)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	return out
}
