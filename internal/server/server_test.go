package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modelgate/admin-api/internal/config"
	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/internal/store"
	"github.com/modelgate/admin-api/internal/store/cache"
	"github.com/modelgate/admin-api/internal/store/model"
	"github.com/modelgate/admin-api/internal/store/sqlite"
	"github.com/modelgate/admin-api/pkg/api"
)

const adminToken = "test-admin-key"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, store.Repository) {
	t.Helper()

	repo, err := sqlite.NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	seedStore(t, repo)

	cfg := &config.Config{}
	cfg.Server.Env = "development"
	cfg.Auth.StaticKeys = []string{adminToken}
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000

	service := services.NewMappingService(repo, cache.NewMemoryCache(), 100, time.Minute)
	srv := New(cfg, zap.NewNop(), service, repo)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, repo
}

func seedStore(t *testing.T, repo store.Repository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Providers().CreateProvider(ctx, &model.Provider{
		ID: "openai-main", Name: "OpenAI", BaseURL: "https://api.openai.com/v1",
		IsEnabled: true, Priority: 10, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.Providers().CreateModel(ctx, &model.Model{
		ID: "gpt-4o", ProviderID: "openai-main", ProviderModelID: "gpt-4o",
		IsEnabled: true, ContextWindow: 128000, CreatedAt: now, UpdatedAt: now,
	}))

	keys := []struct {
		id      string
		name    string
		token   string
		allowed []string
	}{
		{"key-alpha", "team-alpha", "mg-alpha-token", []string{"gpt-4", "gpt-4-turbo", "claude-3"}},
		{"key-beta", "team-beta", "mg-beta-token", []string{"GPT-4-VISION"}},
	}
	for i, k := range keys {
		// Distinct timestamps keep ListActive ordering deterministic.
		created := now.Add(time.Duration(i) * time.Second)
		hash := sha256.Sum256([]byte(k.token))
		key := &model.APIKey{
			ID:        k.id,
			Name:      k.name,
			KeyHash:   hex.EncodeToString(hash[:]),
			KeyPrefix: k.token[:8],
			IsActive:  true,
			CreatedAt: created,
			UpdatedAt: created,
		}
		require.NoError(t, key.SetAllowedModelNames(k.allowed))
		require.NoError(t, repo.APIKeys().Create(ctx, key))
	}
}

func doJSON(t *testing.T, method, url, token string, payload interface{}, target interface{}) int {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp.StatusCode
}

func TestHealthIsPublic(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRequiresAuth(t *testing.T) {
	ts, _ := newTestServer(t)

	code := doJSON(t, "GET", ts.URL+"/admin/v1/models", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code = doJSON(t, "GET", ts.URL+"/admin/v1/models", "wrong-key", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthAcceptsHashedStoreKey(t *testing.T) {
	ts, _ := newTestServer(t)

	code := doJSON(t, "GET", ts.URL+"/admin/v1/models", "mg-alpha-token", nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestValidateRules(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp api.ValidateRulesResponse
	code := doJSON(t, "POST", ts.URL+"/admin/v1/mapping/validate", adminToken,
		api.ValidateRulesRequest{Rules: []string{"gpt-4.*", "(a+)+", "["}}, &resp)

	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Valid)
	require.Len(t, resp.Results, 3)
	assert.True(t, resp.Results[0].Valid)
	assert.False(t, resp.Results[1].Valid)
	assert.Contains(t, resp.Results[1].Reason, "dangerous")
	assert.False(t, resp.Results[2].Valid)
	assert.Contains(t, resp.Results[2].Reason, "invalid pattern")
}

func TestReplaceAndGetRules(t *testing.T) {
	ts, _ := newTestServer(t)

	var put api.MappingRulesResponse
	code := doJSON(t, "PUT", ts.URL+"/admin/v1/models/gpt-4o/mapping-rules", adminToken,
		api.ReplaceRulesRequest{Rules: []string{"  gpt-4.* ", "gpt-4", "gpt-4.*"}}, &put)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"gpt-4.*", "gpt-4"}, put.Rules)

	var got api.MappingRulesResponse
	code = doJSON(t, "GET", ts.URL+"/admin/v1/models/gpt-4o/mapping-rules", adminToken, nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "gpt-4o", got.ModelID)
	assert.Equal(t, []string{"gpt-4.*", "gpt-4"}, got.Rules)
}

func TestReplaceRules_EmptyListClearsMapping(t *testing.T) {
	ts, _ := newTestServer(t)

	code := doJSON(t, "PUT", ts.URL+"/admin/v1/models/gpt-4o/mapping-rules", adminToken,
		api.ReplaceRulesRequest{Rules: []string{"gpt-4"}}, nil)
	require.Equal(t, http.StatusOK, code)

	code = doJSON(t, "PUT", ts.URL+"/admin/v1/models/gpt-4o/mapping-rules", adminToken,
		api.ReplaceRulesRequest{Rules: []string{}}, nil)
	require.Equal(t, http.StatusOK, code)

	var got api.MappingRulesResponse
	code = doJSON(t, "GET", ts.URL+"/admin/v1/models/gpt-4o/mapping-rules", adminToken, nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, got.Rules)
}

func TestReplaceRules_RejectedRuleReturns400(t *testing.T) {
	ts, repo := newTestServer(t)

	code := doJSON(t, "PUT", ts.URL+"/admin/v1/models/gpt-4o/mapping-rules", adminToken,
		api.ReplaceRulesRequest{Rules: []string{"gpt-4", "(a|aa)+"}}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	rules, err := repo.MappingRules().ListByModel(context.Background(), "gpt-4o")
	require.NoError(t, err)
	assert.Empty(t, rules, "rejected list must not be persisted")
}

func TestReplaceRules_UnknownModelReturns404(t *testing.T) {
	ts, _ := newTestServer(t)

	code := doJSON(t, "PUT", ts.URL+"/admin/v1/models/nope/mapping-rules", adminToken,
		api.ReplaceRulesRequest{Rules: []string{"gpt-4"}}, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestReplaceRules_WritesAuditEvent(t *testing.T) {
	ts, _ := newTestServer(t)

	code := doJSON(t, "PUT", ts.URL+"/admin/v1/models/gpt-4o/mapping-rules", adminToken,
		api.ReplaceRulesRequest{Rules: []string{"gpt-4"}}, nil)
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Data []model.AuditEvent `json:"data"`
	}
	code = doJSON(t, "GET", ts.URL+"/admin/v1/audit", adminToken, nil, &resp)
	require.Equal(t, http.StatusOK, code)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "mapping_rules.replace", resp.Data[0].Action)
	assert.Equal(t, "models/gpt-4o", resp.Data[0].TargetResource)
	assert.Equal(t, "static-admin", resp.Data[0].Actor)
}

func TestPreview(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp api.PreviewResponse
	code := doJSON(t, "POST", ts.URL+"/admin/v1/mapping/preview", adminToken,
		api.PreviewRequest{ModelID: "gpt-4o", Rules: []string{"gpt-4.*", "gpt-4"}, IncludeNames: true}, &resp)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "gpt-4o", resp.ModelID)
	assert.Equal(t, []int{3, 1}, resp.RuleCounts)
	assert.Equal(t, 3, resp.Total)

	require.Len(t, resp.Keys, 2)
	assert.Equal(t, []string{"gpt-4", "gpt-4-turbo"}, resp.Keys[0].MatchedNames)
	assert.Equal(t, []string{"GPT-4-VISION"}, resp.Keys[1].MatchedNames)
}

func TestPreview_CountsOnly(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp api.PreviewResponse
	code := doJSON(t, "POST", ts.URL+"/admin/v1/mapping/preview", adminToken,
		api.PreviewRequest{Rules: []string{"claude.*"}}, &resp)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []int{1}, resp.RuleCounts)
	assert.Equal(t, 1, resp.Total)
	assert.Empty(t, resp.Keys)
}

func TestListKeysHidesHashes(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	code := doJSON(t, "GET", ts.URL+"/admin/v1/keys", adminToken, nil, &resp)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Data, 2)
	for _, key := range resp.Data {
		_, present := key["key_hash"]
		assert.False(t, present, "key hash must never be serialized")
	}
}

func TestListProviders(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp struct {
		Object string           `json:"object"`
		Data   []model.Provider `json:"data"`
	}
	code := doJSON(t, "GET", ts.URL+"/admin/v1/providers", adminToken, nil, &resp)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "list", resp.Object)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "OpenAI", resp.Data[0].Name)
}

func TestUsageDaily_BadDaysParam(t *testing.T) {
	ts, _ := newTestServer(t)

	code := doJSON(t, "GET", ts.URL+"/admin/v1/usage/daily?days=9999", adminToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
