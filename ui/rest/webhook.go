package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fillow/wap-core/config"
	"github.com/fillow/wap-core/ingress"
	pkgError "github.com/fillow/wap-core/pkg/error"
)

// InitRestWebhook registers the single Bridge->core inbound endpoint
//: POST /webhook/node/, authenticated by an exact x-api-key
// header match against config.WebhookAdminSecret.
func InitRestWebhook(app fiber.Router, pipeline *ingress.Pipeline) {
	app.Post("/webhook/node/", func(c *fiber.Ctx) error {
		if config.WebhookAdminSecret == "" || c.Get("x-api-key") != config.WebhookAdminSecret {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: "invalid or missing x-api-key"})
		}

		var ev ingress.Event
		if err := c.BodyParser(&ev); err != nil {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
		}

		status := pipeline.Handle(c.UserContext(), ev)
		return c.JSON(fiber.Map{"status": status})
	})
}
