package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/modelgate/admin-api/internal/store"
	"github.com/modelgate/admin-api/pkg/api"
)

// Auth checks for a valid Bearer token in the Authorization header. Tokens
// are matched against the static admin keys first, then hashed and looked up
// in the key store. The resolved identity is injected into the request
// context as the audit actor.
func Auth(repo store.Repository, staticKeys []string) gin.HandlerFunc {
	staticMap := make(map[string]bool)
	for _, k := range staticKeys {
		staticMap[k] = true
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Missing Authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid Authorization header format"})
			return
		}

		token := parts[1]

		if staticMap[token] {
			ctx := context.WithValue(c.Request.Context(), store.ContextKeyActor, "static-admin")
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		hash := sha256.Sum256([]byte(token))
		hashedHex := hex.EncodeToString(hash[:])

		key, err := repo.APIKeys().GetByHash(c.Request.Context(), hashedHex)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid API Key"})
			return
		}

		// Inject key into context for downstream use (audit, logging)
		ctx := context.WithValue(c.Request.Context(), store.ContextKeyAPIKey, key)
		ctx = context.WithValue(ctx, store.ContextKeyActor, key.Name)
		c.Request = c.Request.WithContext(ctx)

		// Update last used timestamp (async)
		go func() {
			_ = repo.APIKeys().UpdateUsage(context.Background(), key.ID)
		}()

		c.Next()
	}
}

// Actor returns the audit identity resolved by Auth, or "unknown" when the
// request reached a handler without one.
func Actor(c *gin.Context) string {
	if actor, ok := c.Request.Context().Value(store.ContextKeyActor).(string); ok && actor != "" {
		return actor
	}
	return "unknown"
}
