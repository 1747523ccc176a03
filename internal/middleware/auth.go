// Package middleware holds fiber middlewares shared by the API routes.
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/costwatch/costwatch/internal/models"
	"github.com/gofiber/fiber/v2"
)

// MinAPIKeyLength is the minimum required length for API keys
const MinAPIKeyLength = 32

const (
	apiKeyHeader        = "X-API-Key"
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// ValidateAPIKey checks if an API key meets the security requirements
func ValidateAPIKey(key string) bool {
	if len(key) < MinAPIKeyLength {
		return false
	}
	return strings.TrimSpace(key) != ""
}

// APIKeyAuth rejects requests that do not carry one of the configured keys.
// It is a pass-through when auth is disabled.
func APIKeyAuth(logger *logging.Logger, cfg config.AuthConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	keys := make([][]byte, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("API key does not meet security requirements",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key),
			)
			continue
		}
		keys = append(keys, []byte(key))
	}

	if len(keys) == 0 {
		logger.Error("No valid API keys configured, every request will be rejected",
			"total_keys", len(cfg.APIKeys),
			"min_required_length", MinAPIKeyLength,
		)
	}

	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKey(c)
		if apiKey == "" {
			logger.Warn("API key missing",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
			)
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}

		if !matchKey(keys, apiKey) {
			logger.Warn("Invalid API key",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
				"api_key_prefix", maskAPIKey(apiKey),
			)
			return unauthorized(c, "Invalid API key.")
		}

		return c.Next()
	}
}

// extractAPIKey accepts "X-API-Key: k", "Authorization: Bearer k" and
// "Authorization: k".
func extractAPIKey(c *fiber.Ctx) string {
	if key := c.Get(apiKeyHeader); key != "" {
		return key
	}
	auth := c.Get(authorizationHeader)
	if after, ok := strings.CutPrefix(auth, bearerPrefix); ok {
		return after
	}
	return auth
}

func matchKey(keys [][]byte, candidate string) bool {
	c := []byte(candidate)
	found := false
	for _, k := range keys {
		if subtle.ConstantTimeCompare(k, c) == 1 {
			found = true
		}
	}
	return found
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNAUTHORIZED",
			Message: message,
			Path:    c.Path(),
		},
	})
}

// maskAPIKey masks API key for logging (show only first 4 chars)
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
