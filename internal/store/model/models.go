package model

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Provider represents an upstream LLM service (OpenAI, Anthropic).
type Provider struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	BaseURL   string    `db:"base_url" json:"base_url"`
	IsEnabled bool      `db:"is_enabled" json:"is_enabled"`
	Priority  int       `db:"priority" json:"priority"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Model is a canonical gateway model with its pricing columns.
type Model struct {
	ID                    string    `db:"id" json:"id"`
	ProviderID            string    `db:"provider_id" json:"provider_id"`
	ProviderModelID       string    `db:"provider_model_id" json:"provider_model_id"`
	IsEnabled             bool      `db:"is_enabled" json:"is_enabled"`
	InputCostMicrosPer1k  int64     `db:"input_cost_micros_per_1k" json:"input_cost_micros_per_1k"`
	OutputCostMicrosPer1k int64     `db:"output_cost_micros_per_1k" json:"output_cost_micros_per_1k"`
	ContextWindow         int       `db:"context_window" json:"context_window"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// MappingRule is one name-mapping pattern bound to a canonical model.
// Patterns are stored trimmed; Position preserves the author's ordering.
type MappingRule struct {
	ID        string    `db:"id" json:"id"`
	ModelID   string    `db:"model_id" json:"model_id"`
	Pattern   string    `db:"pattern" json:"pattern"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// APIKey is an access credential. AllowedModels holds the key's model-name
// whitelist as a JSON string array; it is the candidate-name source for
// mapping previews.
type APIKey struct {
	ID            string       `db:"id" json:"id"`
	Name          string       `db:"name" json:"name"`
	KeyHash       string       `db:"key_hash" json:"-"`            // Never return hash
	KeyPrefix     string       `db:"key_prefix" json:"key_prefix"` // Display only
	AllowedModels string       `db:"allowed_models" json:"allowed_models"`
	IsActive      bool         `db:"is_active" json:"is_active"`
	LastUsedAt    sql.NullTime `db:"last_used_at" json:"last_used_at,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// AllowedModelNames decodes the whitelist column. A missing or malformed
// column yields an empty list rather than an error; a key with no whitelist
// simply matches nothing.
func (k *APIKey) AllowedModelNames() []string {
	if k.AllowedModels == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(k.AllowedModels), &names); err != nil {
		return nil
	}
	return names
}

// SetAllowedModelNames encodes the whitelist column.
func (k *APIKey) SetAllowedModelNames(names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	k.AllowedModels = string(data)
	return nil
}

// AuditEvent records an administrative change, e.g. a rule-list replacement.
type AuditEvent struct {
	ID             string    `db:"id" json:"id"`
	Actor          string    `db:"actor" json:"actor"`
	TargetResource string    `db:"target_resource" json:"target_resource"`
	Action         string    `db:"action" json:"action"`
	DetailsJSON    string    `db:"details_json" json:"details_json"`
	IPAddress      string    `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// RequestLog captures one completed gateway request for the usage dashboard.
type RequestLog struct {
	ID              string    `db:"id" json:"id"`
	APIKeyID        string    `db:"api_key_id" json:"api_key_id"`
	ProviderID      string    `db:"provider_id" json:"provider_id"`
	ModelID         string    `db:"model_id" json:"model_id"`
	UpstreamModelID string    `db:"upstream_model_id" json:"upstream_model_id"`
	InputTokens     int       `db:"input_tokens" json:"input_tokens"`
	OutputTokens    int       `db:"output_tokens" json:"output_tokens"`
	LatencyMS       int64     `db:"latency_ms" json:"latency_ms"`
	StatusCode      int       `db:"status_code" json:"status_code"`
	TotalCostMicros int64     `db:"total_cost_micros" json:"total_cost_micros"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DailyStats represents aggregated usage data for a specific day.
type DailyStats struct {
	Date            string  `db:"date" json:"date"`
	TotalRequests   int     `db:"total_requests" json:"total_requests"`
	TotalTokens     int     `db:"total_tokens" json:"total_tokens"`
	TotalCostMicros int64   `db:"total_cost_micros" json:"total_cost_micros"`
	AverageLatency  float64 `db:"avg_latency" json:"avg_latency"`
}
