package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPotentiallyDangerous_FlagsKnownShapes(t *testing.T) {
	dangerous := []string{
		`(a+)+`,           // quantified group, itself quantified
		`(\w*)*`,          // same shape over a class shorthand
		`(a|aa)+`,         // alternation in a group, quantified
		`(gpt|gpt-4){2,}`, // alternation in a group, counted repetition
		`a{12,}`,          // open-ended high repetition
		`(abc){3,}`,       // open-ended repetition on a group
		`.*.*+`,           // wildcard run followed by a quantifier
		`(((a)+)+)+`,      // triple-nested quantified groups
	}

	for _, rule := range dangerous {
		assert.True(t, IsPotentiallyDangerous(rule), "expected %q to be flagged", rule)
	}
}

func TestIsPotentiallyDangerous_AllowsTypicalRules(t *testing.T) {
	safe := []string{
		``,
		`gpt-4`,
		`claude-haiku-.*`,
		`gpt-4(o|o-mini)`,
		`llama-[0-9]+b`,
		`a{3}`,
		`a{2,5}`,
		`mistral-(small|medium|large)`,
	}

	for _, rule := range safe {
		assert.False(t, IsPotentiallyDangerous(rule), "expected %q to pass", rule)
	}
}
