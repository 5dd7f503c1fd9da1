package api

// ValidateRulesRequest carries a candidate rule list for stateless checking.
// Length ceilings mirror the engine's limits so obviously-bad payloads are
// rejected at the binding layer.
type ValidateRulesRequest struct {
	Rules []string `json:"rules" binding:"required,min=1,max=50,dive,max=200"`
}

// PreviewRequest asks for a whitelist preview of a rule list, optionally
// scoped to a canonical model for cache keying and display.
type PreviewRequest struct {
	ModelID string   `json:"model_id,omitempty"`
	Rules   []string `json:"rules" binding:"required,min=1,max=50,dive,max=200"`

	// IncludeNames requests the grouped matched-name detail in addition to
	// the counts.
	IncludeNames bool `json:"include_names,omitempty"`
}

// ReplaceRulesRequest replaces the full rule list of one canonical model.
// An empty list clears the mapping.
type ReplaceRulesRequest struct {
	Rules []string `json:"rules" binding:"max=50,dive,max=200"`
}
