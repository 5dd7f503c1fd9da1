package mapping

import "regexp"

// dangerousShapes are structural red flags known to cause catastrophic
// backtracking in naive backtracking regex engines. Checks run in order and
// a single hit disqualifies the rule.
var dangerousShapes = []*regexp.Regexp{
	// A quantified group that is itself quantified: (a+)+, (\w*)*
	regexp.MustCompile(`\([^)]*[+*]\)[+*]`),
	// Alternation inside a group followed by a quantifier: (a|aa)+
	regexp.MustCompile(`\([^)]*\|[^)]*\)[+*{]`),
	// Open-ended repetition with a high lower bound: a{10,} and beyond
	regexp.MustCompile(`\{\d{2,},\}`),
	// Any open-ended repetition applied to a group: (abc){3,}
	regexp.MustCompile(`\)\{\d+,\}`),
	// A run of wildcards followed by another quantifier: .*.*+
	regexp.MustCompile(`(?:\.\*|\.\+){2,}[+*]`),
	// Three levels of nested quantified groups: (((a)+)+)+
	regexp.MustCompile(`\([^()]*\([^()]*\([^()]*\)[+*][^()]*\)[+*][^()]*\)[+*]`),
}

// IsPotentiallyDangerous reports whether the rule textually matches any known
// catastrophic-backtracking shape.
//
// This is a conservative heuristic, not a proof: some dangerous patterns slip
// through and some safe patterns are rejected. Go's regexp package is
// RE2-based and guarantees linear-time matching, so the screen exists to
// reject rules that are confusing or unintentionally explosive before they
// reach the engine, and to stay aligned with server-side counterparts that do
// run backtracking engines. Any authoritative protection (execution timeout,
// step budget) belongs around the evaluation site, not here.
func IsPotentiallyDangerous(rule string) bool {
	for _, shape := range dangerousShapes {
		if shape.MatchString(rule) {
			return true
		}
	}
	return false
}
