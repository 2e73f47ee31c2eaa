package rest

import (
	"github.com/gofiber/fiber/v2"

	domainChatbotConfig "github.com/fillow/wap-core/domains/chatbotconfig"
	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/fillow/wap-core/usecase"
)

// ChatbotConfig exposes tenant-admin CRUD for the AI Chatbot Engine's
// per-instance configuration, gated by middleware.AdminAuth.
type ChatbotConfig struct {
	service *usecase.ChatbotConfigService
}

func InitRestChatbotConfig(app fiber.Router, service *usecase.ChatbotConfigService) ChatbotConfig {
	rest := ChatbotConfig{service: service}

	app.Post("/chatbot-configs", rest.Create)
	app.Get("/chatbot-configs/:id", rest.GetByID)
	app.Get("/instances/:instanceId/chatbot-config", rest.GetByInstanceID)
	app.Put("/chatbot-configs/:id", rest.Update)
	app.Delete("/chatbot-configs/:id", rest.Delete)

	return rest
}

type chatbotConfigBody struct {
	OwnerTenantID string `json:"owner_tenant_id"`
	domainChatbotConfig.Config
}

func (r *ChatbotConfig) Create(c *fiber.Ctx) error {
	var body chatbotConfigBody
	if err := c.BodyParser(&body); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}

	cfg, err := r.service.Create(c.UserContext(), body.OwnerTenantID, body.Config)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(cfg)
}

func (r *ChatbotConfig) GetByID(c *fiber.Ctx) error {
	cfg, err := r.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(cfg)
}

func (r *ChatbotConfig) GetByInstanceID(c *fiber.Ctx) error {
	cfg, err := r.service.GetByInstanceID(c.UserContext(), c.Params("instanceId"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(cfg)
}

func (r *ChatbotConfig) Update(c *fiber.Ctx) error {
	var body domainChatbotConfig.Config
	if err := c.BodyParser(&body); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}
	body.ID = c.Params("id")

	cfg, err := r.service.Update(c.UserContext(), body)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(cfg)
}

func (r *ChatbotConfig) Delete(c *fiber.Ctx) error {
	if err := r.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
