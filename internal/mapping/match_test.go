package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches_WholeStringCaseInsensitive(t *testing.T) {
	cache := NewMatcherCache(16)

	assert.True(t, Matches("claude-haiku-.*", "Claude-Haiku-20241022", cache))
	assert.False(t, Matches("claude-haiku-.*", "my-claude-haiku", cache), "whole-string anchor")
	assert.False(t, Matches("claude-haiku-.*", "claude-sonnet-x", cache))
}

func TestMatches_ExactEqualityShortCircuit(t *testing.T) {
	cache := NewMatcherCache(16)

	assert.True(t, Matches("GPT-4", "gpt-4", cache))

	// Equality wins even when the rule is not valid regex syntax.
	assert.True(t, Matches("gpt-4[", "GPT-4[", cache))
	assert.False(t, Matches("gpt-4[", "gpt-4x", cache))
}

func TestMatches_OversizedCandidateNeverMatches(t *testing.T) {
	cache := NewMatcherCache(16)
	long := strings.Repeat("a", MaxCandidateNameLength+1)

	assert.False(t, Matches(".*", long, cache))
	assert.False(t, Matches(long, long, cache), "even exact equality is skipped")
}

func TestMatches_EmptyOrInvalidRule(t *testing.T) {
	cache := NewMatcherCache(16)

	assert.False(t, Matches("", "gpt-4", cache))
	assert.False(t, Matches("   ", "gpt-4", cache))
	assert.False(t, Matches("(a+)+", "aaaa", cache), "unsafe rules contribute no matches")
}

func TestRuleMatches(t *testing.T) {
	cache := NewMatcherCache(16)
	rules := []string{"gemini-.*", "gpt-4"}

	assert.True(t, RuleMatches(rules, "Gemini-2.5-Pro", cache))
	assert.True(t, RuleMatches(rules, "GPT-4", cache))
	assert.False(t, RuleMatches(rules, "claude-3", cache))
	assert.False(t, RuleMatches(nil, "gpt-4", cache))
}

func TestPreview_EndToEnd(t *testing.T) {
	cache := NewMatcherCache(16)

	rules := []string{"gpt-4.*", "gpt-4"}
	creds := []Credential{
		{ID: "key-1", Name: "CI Key", AllowedModels: []string{"gpt-4", "gpt-4-turbo", "GPT-4-VISION"}},
	}

	res := Preview(rules, creds, cache)

	require.Equal(t, []string{"GPT-4-VISION", "gpt-4", "gpt-4-turbo"}, res.MatchedNames["key-1"])
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []int{3, 1}, res.RuleCounts)
}

func TestPreview_DeduplicatesPerCredential(t *testing.T) {
	cache := NewMatcherCache(16)

	// Both rules match the same name; it must count once per credential.
	rules := []string{"gpt-4", "gpt-.*"}
	creds := []Credential{
		{ID: "a", AllowedModels: []string{"gpt-4"}},
		{ID: "b", AllowedModels: []string{"gpt-4", "gpt-4"}},
	}

	res := Preview(rules, creds, cache)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []string{"gpt-4"}, res.MatchedNames["a"])
	assert.Equal(t, []string{"gpt-4"}, res.MatchedNames["b"])
}

func TestPreview_DeterministicAcrossInputOrder(t *testing.T) {
	cache := NewMatcherCache(16)

	rules := []string{"claude-.*", "llama-3"}
	forward := []Credential{
		{ID: "a", AllowedModels: []string{"claude-3-haiku", "llama-3", "gpt-4"}},
		{ID: "b", AllowedModels: []string{"CLAUDE-3-OPUS"}},
	}
	reversed := []Credential{
		{ID: "b", AllowedModels: []string{"CLAUDE-3-OPUS"}},
		{ID: "a", AllowedModels: []string{"gpt-4", "llama-3", "claude-3-haiku"}},
	}

	first := Preview(rules, forward, cache)
	second := Preview(rules, reversed, cache)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.MatchedNames, second.MatchedNames)
}

func TestPreview_InvalidRuleContributesNothing(t *testing.T) {
	cache := NewMatcherCache(16)

	res := Preview([]string{"[bad"}, []Credential{
		{ID: "a", AllowedModels: []string{"gpt-4", "claude-3"}},
	}, cache)

	assert.Equal(t, 0, res.Total)
	assert.Equal(t, []int{0}, res.RuleCounts)
	assert.Empty(t, res.MatchedNames["a"])
}

func TestPreview_OversizedCandidateExcluded(t *testing.T) {
	cache := NewMatcherCache(16)
	long := strings.Repeat("m", MaxCandidateNameLength+1)

	res := Preview([]string{".*"}, []Credential{
		{ID: "a", AllowedModels: []string{long, "gpt-4"}},
	}, cache)

	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []string{"gpt-4"}, res.MatchedNames["a"])
}

func TestNormalizeRules(t *testing.T) {
	in := []string{" gpt-4 ", "gpt-4", "", "  ", "claude-.*", "gpt-4"}
	assert.Equal(t, []string{"gpt-4", "claude-.*"}, NormalizeRules(in))
	assert.Empty(t, NormalizeRules(nil))
}
