package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fillow/wap-core/config"
	pkgError "github.com/fillow/wap-core/pkg/error"
)

// AdminAuth guards the tenant-admin management routes (Instance,
// ChatbotConfig, Campaign CRUD) with an exact x-api-key match against
// config.AdminAPIKey, the same credential shape InitRestWebhook uses
// for the Bridge's inbound callback.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if config.AdminAPIKey == "" || c.Get("x-api-key") != config.AdminAPIKey {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: "invalid or missing x-api-key"})
		}
		return c.Next()
	}
}
