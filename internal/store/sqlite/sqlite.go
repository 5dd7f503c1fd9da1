package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/modelgate/admin-api/internal/store"
	"github.com/modelgate/admin-api/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	// Repository instance bound to the transaction
	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Providers() store.ProviderRepository {
	return &providerRepo{db: r.executor}
}

func (r *SqliteRepository) MappingRules() store.MappingRuleRepository {
	return &mappingRuleRepo{db: r.executor}
}

func (r *SqliteRepository) APIKeys() store.APIKeyRepository {
	return &apiKeyRepo{db: r.executor}
}

func (r *SqliteRepository) Requests() store.RequestRepository {
	return &requestRepo{db: r.executor}
}

func (r *SqliteRepository) Audit() store.AuditRepository {
	return &auditRepo{db: r.executor}
}

type providerRepo struct {
	db DB
}

func (r *providerRepo) ListActive(ctx context.Context) ([]model.Provider, error) {
	var providers []model.Provider
	err := r.db.SelectContext(ctx, &providers, `SELECT * FROM providers WHERE is_enabled = 1 ORDER BY priority DESC`)
	return providers, err
}

func (r *providerRepo) ListModels(ctx context.Context) ([]model.Model, error) {
	var models []model.Model
	err := r.db.SelectContext(ctx, &models, `SELECT * FROM models ORDER BY id`)
	return models, err
}

func (r *providerRepo) GetModel(ctx context.Context, id string) (*model.Model, error) {
	var m model.Model
	if err := r.db.GetContext(ctx, &m, `SELECT * FROM models WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *providerRepo) CreateProvider(ctx context.Context, p *model.Provider) error {
	query := `
	INSERT INTO providers (id, name, base_url, is_enabled, priority, created_at, updated_at)
	VALUES (:id, :name, :base_url, :is_enabled, :priority, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *providerRepo) CreateModel(ctx context.Context, m *model.Model) error {
	query := `
	INSERT INTO models (
		id, provider_id, provider_model_id, is_enabled,
		input_cost_micros_per_1k, output_cost_micros_per_1k,
		context_window, created_at, updated_at
	) VALUES (
		:id, :provider_id, :provider_model_id, :is_enabled,
		:input_cost_micros_per_1k, :output_cost_micros_per_1k,
		:context_window, :created_at, :updated_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, m)
	return err
}

type mappingRuleRepo struct {
	db DB
}

func (r *mappingRuleRepo) ListByModel(ctx context.Context, modelID string) ([]model.MappingRule, error) {
	var rules []model.MappingRule
	query := `SELECT * FROM mapping_rules WHERE model_id = ? ORDER BY position`
	err := r.db.SelectContext(ctx, &rules, query, modelID)
	return rules, err
}

func (r *mappingRuleRepo) ReplaceForModel(ctx context.Context, modelID string, patterns []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM mapping_rules WHERE model_id = ?`, modelID); err != nil {
		return err
	}

	query := `
	INSERT INTO mapping_rules (id, model_id, pattern, position, created_at)
	VALUES (:id, :model_id, :pattern, :position, :created_at)`

	for i, pattern := range patterns {
		rule := model.MappingRule{
			ID:        uuid.New().String(),
			ModelID:   modelID,
			Pattern:   pattern,
			Position:  i,
			CreatedAt: time.Now(),
		}
		if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
			return fmt.Errorf("failed to insert rule %d: %w", i, err)
		}
	}

	return nil
}

type apiKeyRepo struct {
	db DB
}

func (r *apiKeyRepo) GetByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	var key model.APIKey
	// active check is part of the query for speed
	query := `SELECT * FROM api_keys WHERE key_hash = ? AND is_active = 1`
	if err := r.db.GetContext(ctx, &key, query, hash); err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) ListActive(ctx context.Context) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.db.SelectContext(ctx, &keys, `SELECT * FROM api_keys WHERE is_active = 1 ORDER BY created_at`)
	return keys, err
}

func (r *apiKeyRepo) Create(ctx context.Context, key *model.APIKey) error {
	query := `
	INSERT INTO api_keys (id, name, key_hash, key_prefix, allowed_models, is_active, created_at, updated_at)
	VALUES (:id, :name, :key_hash, :key_prefix, :allowed_models, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, key)
	return err
}

func (r *apiKeyRepo) UpdateUsage(ctx context.Context, id string) error {
	query := `UPDATE api_keys SET last_used_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

type requestRepo struct {
	db DB
}

func (r *requestRepo) Log(ctx context.Context, log *model.RequestLog) error {
	query := `
	INSERT INTO request_logs (
		id, api_key_id, provider_id, model_id, upstream_model_id,
		input_tokens, output_tokens, latency_ms, status_code,
		total_cost_micros, created_at
	) VALUES (
		:id, :api_key_id, :provider_id, :model_id, :upstream_model_id,
		:input_tokens, :output_tokens, :latency_ms, :status_code,
		:total_cost_micros, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, log)
	return err
}

func (r *requestRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
		SELECT
			DATE(created_at) as date,
			COUNT(*) as total_requests,
			SUM(input_tokens + output_tokens) as total_tokens,
			SUM(total_cost_micros) as total_cost_micros,
			AVG(latency_ms) as avg_latency
		FROM request_logs
		WHERE created_at >= DATE('now', ?)
		GROUP BY date
		ORDER BY date DESC
	`
	// SQLite date offset format is '-7 days'
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}

type auditRepo struct {
	db DB
}

func (r *auditRepo) Log(ctx context.Context, event *model.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO audit_events (id, actor, target_resource, action, details_json, ip_address, created_at)
	VALUES (:id, :actor, :target_resource, :action, :details_json, :ip_address, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, event)
	return err
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]model.AuditEvent, error) {
	var events []model.AuditEvent
	query := `SELECT * FROM audit_events ORDER BY created_at DESC, id LIMIT ?`
	err := r.db.SelectContext(ctx, &events, query, limit)
	return events, err
}
