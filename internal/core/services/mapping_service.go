package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/modelgate/admin-api/internal/logger"
	"github.com/modelgate/admin-api/internal/mapping"
	"github.com/modelgate/admin-api/internal/store"
	"github.com/modelgate/admin-api/internal/store/cache"
	"github.com/modelgate/admin-api/internal/store/model"
	"github.com/modelgate/admin-api/pkg/api"
)

// ErrModelNotFound is returned when a rule operation targets an unknown model.
var ErrModelNotFound = errors.New("model not found")

// ErrRulesRejected is returned when a rule list fails validation; the
// per-rule results carry the reasons.
var ErrRulesRejected = errors.New("mapping rules rejected")

// MappingService owns the mapping engine state: the injected compiled-matcher
// cache and the shared cache of derived preview counts. The matcher cache is
// cleared whenever the key-whitelist dataset changes revision, so derived
// conclusions are never silently reused across datasets.
type MappingService struct {
	repo     store.Repository
	counts   cache.CacheService
	matchers *mapping.MatcherCache
	ttl      time.Duration

	mu           sync.Mutex
	lastRevision uint64
}

func NewMappingService(repo store.Repository, counts cache.CacheService, matcherCacheSize int, previewTTL time.Duration) *MappingService {
	return &MappingService{
		repo:     repo,
		counts:   counts,
		matchers: mapping.NewMatcherCache(matcherCacheSize),
		ttl:      previewTTL,
	}
}

// ValidateRules checks a rule list without touching storage.
func (s *MappingService) ValidateRules(rules []string) ([]mapping.Result, bool) {
	return mapping.ValidateRules(rules)
}

// GetRules returns the stored rule list of one model, in authored order.
func (s *MappingService) GetRules(ctx context.Context, modelID string) ([]string, error) {
	if _, err := s.repo.Providers().GetModel(ctx, modelID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelID)
	}

	rules, err := s.repo.MappingRules().ListByModel(ctx, modelID)
	if err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(rules))
	for _, r := range rules {
		patterns = append(patterns, r.Pattern)
	}
	return patterns, nil
}

// ReplaceRules validates, normalizes, and persists the full rule list of one
// model atomically, recording an audit event. On validation failure it
// returns ErrRulesRejected along with the per-rule results so the caller can
// surface inline reasons; nothing is persisted in that case.
func (s *MappingService) ReplaceRules(ctx context.Context, modelID string, rules []string, actor string) ([]mapping.Result, error) {
	if _, err := s.repo.Providers().GetModel(ctx, modelID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelID)
	}

	results, ok := mapping.ValidateRules(rules)
	if !ok {
		return results, ErrRulesRejected
	}

	normalized := mapping.NormalizeRules(rules)

	err := s.repo.WithTx(ctx, func(repo store.Repository) error {
		if err := repo.MappingRules().ReplaceForModel(ctx, modelID, normalized); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{"rule_count": len(normalized)})
		return repo.Audit().Log(ctx, &model.AuditEvent{
			Actor:          actor,
			TargetResource: "models/" + modelID,
			Action:         "mapping_rules.replace",
			DetailsJSON:    string(details),
		})
	})
	if err != nil {
		return results, err
	}

	logger.Info("Mapping rules replaced",
		zap.String("model", modelID),
		zap.Int("rules", len(normalized)),
		zap.String("actor", actor),
	)

	return results, nil
}

// previewCounts is the cached slice of a preview: the count badges only.
// Grouped name detail is recomputed on demand.
type previewCounts struct {
	RuleCounts []int `json:"rule_counts"`
	Total      int   `json:"total"`
}

// Preview evaluates a rule list against every active key whitelist. Counts
// are served from the shared cache when the same (dataset, rules) pair was
// computed recently; the grouped matched-name detail always comes from a
// fresh engine pass.
func (s *MappingService) Preview(ctx context.Context, modelID string, rules []string, includeNames bool) (*api.PreviewResponse, error) {
	keys, err := s.repo.APIKeys().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	creds := make([]mapping.Credential, 0, len(keys))
	meta := make(map[string]model.APIKey, len(keys))
	for _, k := range keys {
		creds = append(creds, mapping.Credential{
			ID:            k.ID,
			Name:          k.Name,
			AllowedModels: k.AllowedModelNames(),
		})
		meta[k.ID] = k
	}

	revision := datasetRevision(creds)
	s.observeRevision(revision)

	resp := &api.PreviewResponse{ModelID: modelID}
	cacheKey := fmt.Sprintf("mapping:preview:%x:%x", revision, rulesDigest(rules))

	if !includeNames {
		var cached previewCounts
		if err := s.counts.Get(ctx, cacheKey, &cached); err == nil {
			resp.RuleCounts = cached.RuleCounts
			resp.Total = cached.Total
			return resp, nil
		}
	}

	result := mapping.Preview(rules, creds, s.matchers)

	resp.RuleCounts = result.RuleCounts
	resp.Total = result.Total

	if includeNames {
		resp.Keys = make([]api.PreviewKey, 0, len(creds))
		for _, cred := range creds {
			k := meta[cred.ID]
			resp.Keys = append(resp.Keys, api.PreviewKey{
				KeyID:        k.ID,
				KeyName:      k.Name,
				KeyPrefix:    k.KeyPrefix,
				MatchedNames: result.MatchedNames[cred.ID],
			})
		}
	}

	if err := s.counts.Set(ctx, cacheKey, previewCounts{RuleCounts: result.RuleCounts, Total: result.Total}, s.ttl); err != nil {
		logger.Warn("Failed to cache preview counts", zap.Error(err))
	}

	return resp, nil
}

// observeRevision clears the matcher cache when the whitelist dataset
// changes. Compiled matchers themselves stay valid across datasets, but
// clearing keeps the cache from pinning rules that no longer occur.
func (s *MappingService) observeRevision(revision uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastRevision != 0 && s.lastRevision != revision {
		s.matchers.Clear()
	}
	s.lastRevision = revision
}

// datasetRevision is an order-insensitive digest of the credential dataset.
func datasetRevision(creds []mapping.Credential) uint64 {
	var revision uint64
	for _, cred := range creds {
		h := fnv.New64a()
		_, _ = h.Write([]byte(cred.ID))
		for _, name := range cred.AllowedModels {
			_, _ = h.Write([]byte{0})
			_, _ = h.Write([]byte(name))
		}
		revision ^= h.Sum64()
	}
	return revision
}

func rulesDigest(rules []string) uint64 {
	h := fnv.New64a()
	for _, rule := range rules {
		_, _ = h.Write([]byte(rule))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// ListProviders returns all enabled providers.
func (s *MappingService) ListProviders(ctx context.Context) ([]model.Provider, error) {
	return s.repo.Providers().ListActive(ctx)
}

// ListModels returns all canonical models with pricing.
func (s *MappingService) ListModels(ctx context.Context) ([]model.Model, error) {
	return s.repo.Providers().ListModels(ctx)
}

// ListKeys returns all active API keys with their whitelists.
func (s *MappingService) ListKeys(ctx context.Context) ([]model.APIKey, error) {
	return s.repo.APIKeys().ListActive(ctx)
}

// RecentAudit returns the newest administrative changes.
func (s *MappingService) RecentAudit(ctx context.Context, limit int) ([]model.AuditEvent, error) {
	return s.repo.Audit().ListRecent(ctx, limit)
}

// DailyUsage returns aggregated request stats for the dashboard.
func (s *MappingService) DailyUsage(ctx context.Context, days int) ([]model.DailyStats, error) {
	return s.repo.Requests().GetDailyStats(ctx, days)
}
