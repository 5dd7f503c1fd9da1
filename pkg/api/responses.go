package api

// RuleValidation is the per-rule outcome shown inline next to each input.
type RuleValidation struct {
	Rule   string `json:"rule"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateRulesResponse is parallel to the request's rule list.
type ValidateRulesResponse struct {
	Valid   bool             `json:"valid"`
	Results []RuleValidation `json:"results"`
}

// PreviewResponse reports how a rule list lands on the current key
// whitelists: a match-count badge per rule, a distinct total, and optionally
// the matched names grouped by credential.
type PreviewResponse struct {
	ModelID    string       `json:"model_id,omitempty"`
	RuleCounts []int        `json:"rule_counts"`
	Total      int          `json:"total"`
	Keys       []PreviewKey `json:"keys,omitempty"`
}

// PreviewKey is the expandable per-credential detail row.
type PreviewKey struct {
	KeyID        string   `json:"key_id"`
	KeyName      string   `json:"key_name"`
	KeyPrefix    string   `json:"key_prefix,omitempty"`
	MatchedNames []string `json:"matched_names"`
}

// MappingRulesResponse is the stored rule list of one canonical model.
type MappingRulesResponse struct {
	ModelID string   `json:"model_id"`
	Rules   []string `json:"rules"`
}
