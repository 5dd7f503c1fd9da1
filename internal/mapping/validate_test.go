package mapping

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmptyRule(t *testing.T) {
	for _, rule := range []string{"", "   ", "\t\n"} {
		res := Validate(rule)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Reason, "empty")
	}
}

func TestValidate_TooLong(t *testing.T) {
	res := Validate(strings.Repeat("a", MaxRuleLength+1))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "200")
}

func TestValidate_UnsafeRuleShortCircuitsCompilation(t *testing.T) {
	compiles := 0
	compileRule = func(rule string) (*regexp.Regexp, error) {
		compiles++
		return compile(rule)
	}
	defer func() { compileRule = compile }()

	res := Validate(`(a+)+`)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "dangerous")
	assert.Equal(t, 0, compiles, "compilation must never be attempted for unsafe rules")
}

func TestValidate_SyntaxErrorSurfacesEngineMessage(t *testing.T) {
	res := Validate(`[unclosed`)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "invalid pattern")
	assert.NotEmpty(t, res.Reason)
}

func TestValidate_ValidRule(t *testing.T) {
	res := Validate(`claude-haiku-.*`)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Reason)
}

func TestValidateRules(t *testing.T) {
	results, ok := ValidateRules([]string{"gpt-4.*", "[bad"})
	assert.False(t, ok)
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)

	results, ok = ValidateRules([]string{"gpt-4", " gpt-4 ", ""})
	assert.False(t, ok, "empty entries fail individually even though normalization drops them")
	assert.True(t, results[0].Valid)
	assert.True(t, results[1].Valid)
	assert.False(t, results[2].Valid)
}

func TestValidateRules_EnforcesRuleCeiling(t *testing.T) {
	rules := make([]string, MaxRulesPerModel+1)
	for i := range rules {
		rules[i] = fmt.Sprintf("model-%d", i)
	}

	results, ok := ValidateRules(rules)
	assert.False(t, ok)
	for _, r := range results {
		assert.True(t, r.Valid, "individual rules are fine; only the count is over")
	}
}

func TestCompiledMatcher_EmptyAndOversizedNeverPopulateCache(t *testing.T) {
	cache := NewMatcherCache(4)

	assert.Nil(t, CompiledMatcher("", cache))
	assert.Nil(t, CompiledMatcher("   ", cache))
	assert.Nil(t, CompiledMatcher(strings.Repeat("a", MaxRuleLength+1), cache))
	assert.Equal(t, 0, cache.Len())
}

func TestCompiledMatcher_CachesInvalidSentinel(t *testing.T) {
	cache := NewMatcherCache(4)

	require.Nil(t, CompiledMatcher(`[bad`, cache))
	require.Equal(t, 1, cache.Len())

	re, present := cache.Get(`[bad`)
	assert.True(t, present)
	assert.Nil(t, re)
}

func TestCompiledMatcher_HitSkipsSafetyAnalysis(t *testing.T) {
	analyses := 0
	analyzeRule = func(rule string) bool {
		analyses++
		return IsPotentiallyDangerous(rule)
	}
	defer func() { analyzeRule = IsPotentiallyDangerous }()

	cache := NewMatcherCache(4)

	first := CompiledMatcher(`gpt-4.*`, cache)
	require.NotNil(t, first)
	require.Equal(t, 1, analyses)

	second := CompiledMatcher(`gpt-4.*`, cache)
	require.NotNil(t, second)
	assert.Equal(t, 1, analyses, "cache hit must not re-run the safety screen")

	// Identical behavior on both handles.
	for _, name := range []string{"gpt-4-turbo", "GPT-4o", "claude-3"} {
		assert.Equal(t, first.MatchString(name), second.MatchString(name))
	}
}

func TestCompiledMatcher_AnchorsAndCaseFolds(t *testing.T) {
	cache := NewMatcherCache(4)
	re := CompiledMatcher(`gpt-4|claude-3`, cache)
	require.NotNil(t, re)

	assert.True(t, re.MatchString("GPT-4"))
	assert.True(t, re.MatchString("claude-3"))
	assert.False(t, re.MatchString("my-gpt-4"), "top-level alternation stays anchored")
	assert.False(t, re.MatchString("claude-3-opus"))
}
