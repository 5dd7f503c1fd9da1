package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/modelgate/admin-api/internal/cli"
	"github.com/modelgate/admin-api/internal/logger"
	"github.com/modelgate/admin-api/internal/store/model"
	"github.com/modelgate/admin-api/internal/store/sqlite"
)

type seedModel struct {
	id       string
	provider string
	upstream string
	rules    []string
}

func main() {
	repo, err := sqlite.NewSQLiteStorage("admin.db", logger.Get())
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()
	now := time.Now()

	providers := []model.Provider{
		{ID: "openai-main", Name: "OpenAI", BaseURL: "https://api.openai.com/v1", IsEnabled: true, Priority: 10, CreatedAt: now, UpdatedAt: now},
		{ID: "anthropic-main", Name: "Anthropic", BaseURL: "https://api.anthropic.com/v1", IsEnabled: true, Priority: 5, CreatedAt: now, UpdatedAt: now},
	}
	for _, p := range providers {
		if err := repo.Providers().CreateProvider(ctx, &p); err != nil {
			log.Printf("Provider %s might already exist: %v", p.ID, err)
			continue
		}
		fmt.Printf("%s Created provider %s\n", cli.CheckMark(), p.Name)
	}

	models := []seedModel{
		{id: "gpt-4o", provider: "openai-main", upstream: "gpt-4o", rules: []string{"gpt-4o.*", "gpt-4"}},
		{id: "gpt-4o-mini", provider: "openai-main", upstream: "gpt-4o-mini", rules: []string{"gpt-4o-mini", "gpt-3\\.5.*"}},
		{id: "claude-sonnet", provider: "anthropic-main", upstream: "claude-sonnet-4-5", rules: []string{"claude.*"}},
	}
	for _, m := range models {
		row := model.Model{
			ID:                    m.id,
			ProviderID:            m.provider,
			ProviderModelID:       m.upstream,
			IsEnabled:             true,
			InputCostMicrosPer1k:  2500,
			OutputCostMicrosPer1k: 10000,
			ContextWindow:         128000,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := repo.Providers().CreateModel(ctx, &row); err != nil {
			log.Printf("Model %s might already exist: %v", m.id, err)
			continue
		}
		if err := repo.MappingRules().ReplaceForModel(ctx, m.id, m.rules); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s Created model %s with %d mapping rules\n", cli.CheckMark(), m.id, len(m.rules))
	}

	rawKey := "mg-admin-1234567890"
	hash := sha256.Sum256([]byte(rawKey))
	hashedHex := hex.EncodeToString(hash[:])

	key := &model.APIKey{
		ID:        uuid.New().String(),
		Name:      "Seed Admin Key",
		KeyHash:   hashedHex,
		KeyPrefix: "mg-admin-",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := key.SetAllowedModelNames([]string{"gpt-4", "gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo", "claude-sonnet-4-5"}); err != nil {
		log.Fatal(err)
	}

	if err := repo.APIKeys().Create(ctx, key); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\n%s Successfully seeded database!\n", cli.CheckMark())
	fmt.Printf("%s API Key: %s\n", cli.Arrow(), cli.Style(rawKey, cli.Bold))
	fmt.Printf("%s Use this key in your Authorization header: Bearer %s\n", cli.Arrow(), rawKey)
	fmt.Printf("\nSeeded key whitelist:\n%s\n", cli.PrettyJSON(key.AllowedModelNames()))
}
