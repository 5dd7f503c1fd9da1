package store

import (
	"context"

	"github.com/modelgate/admin-api/internal/store/model"
)

type contextKey string

const (
	ContextKeyAPIKey contextKey = "api_key"
	ContextKeyActor  contextKey = "actor"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Providers() ProviderRepository
	MappingRules() MappingRuleRepository
	APIKeys() APIKeyRepository
	Requests() RequestRepository
	Audit() AuditRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type ProviderRepository interface {
	// ListActive returns all enabled providers ordered by priority.
	ListActive(ctx context.Context) ([]model.Provider, error)
	// ListModels returns all models with their pricing columns.
	ListModels(ctx context.Context) ([]model.Model, error)
	// GetModel returns one canonical model.
	GetModel(ctx context.Context, id string) (*model.Model, error)
	// CreateProvider inserts a provider (seeding and admin setup).
	CreateProvider(ctx context.Context, p *model.Provider) error
	// CreateModel inserts a canonical model.
	CreateModel(ctx context.Context, m *model.Model) error
}

type MappingRuleRepository interface {
	// ListByModel returns a model's rules ordered by position.
	ListByModel(ctx context.Context, modelID string) ([]model.MappingRule, error)
	// ReplaceForModel swaps the full rule list of a model, preserving the
	// given order. Callers wanting atomicity wrap this in WithTx.
	ReplaceForModel(ctx context.Context, modelID string, patterns []string) error
}

type APIKeyRepository interface {
	// GetByHash retrieves a key by its hashed value (for auth).
	GetByHash(ctx context.Context, hash string) (*model.APIKey, error)
	// ListActive returns all active keys with their whitelists.
	ListActive(ctx context.Context) ([]model.APIKey, error)
	// Create issues a new API key.
	Create(ctx context.Context, key *model.APIKey) error
	// UpdateUsage stamps the last-used time.
	UpdateUsage(ctx context.Context, id string) error
}

type RequestRepository interface {
	// Log stores a completed request.
	Log(ctx context.Context, log *model.RequestLog) error
	// GetDailyStats returns aggregated stats grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}

type AuditRepository interface {
	// Log records an audit event.
	Log(ctx context.Context, event *model.AuditEvent) error
	// ListRecent returns the newest events first.
	ListRecent(ctx context.Context, limit int) ([]model.AuditEvent, error)
}
