package rest

import (
	"github.com/gofiber/fiber/v2"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/fillow/wap-core/usecase"
)

// Campaign exposes tenant-admin CRUD plus the Plan/Pause/Resume/Cancel
// lifecycle actions for the Dispatch (Broadcast) Queue, gated by
// middleware.AdminAuth.
type Campaign struct {
	service *usecase.CampaignService
}

func InitRestCampaign(app fiber.Router, service *usecase.CampaignService) Campaign {
	rest := Campaign{service: service}

	app.Post("/campaigns", rest.Create)
	app.Get("/campaigns/:id", rest.GetByID)
	app.Post("/campaigns/:id/plan", rest.Plan)
	app.Post("/campaigns/:id/pause", rest.Pause)
	app.Post("/campaigns/:id/resume", rest.Resume)
	app.Post("/campaigns/:id/cancel", rest.Cancel)

	return rest
}

type createCampaignBody struct {
	OwnerTenantID string `json:"owner_tenant_id"`
	domainCampaign.Campaign
}

func (r *Campaign) Create(c *fiber.Ctx) error {
	var body createCampaignBody
	if err := c.BodyParser(&body); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}

	camp, err := r.service.Create(c.UserContext(), body.OwnerTenantID, body.Campaign)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(camp)
}

func (r *Campaign) GetByID(c *fiber.Ctx) error {
	camp, err := r.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(camp)
}

type planCampaignBody struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// Plan resolves recipients and enqueues the campaign's queue items,
// transitioning it from DRAFT to SCHEDULED.
func (r *Campaign) Plan(c *fiber.Ctx) error {
	var body planCampaignBody
	if err := c.BodyParser(&body); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}

	camp, err := r.service.Plan(c.UserContext(), c.Params("id"), body.SessionID, body.Token)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(camp)
}

func (r *Campaign) Pause(c *fiber.Ctx) error {
	camp, err := r.service.Pause(c.UserContext(), c.Params("id"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(camp)
}

func (r *Campaign) Resume(c *fiber.Ctx) error {
	camp, err := r.service.Resume(c.UserContext(), c.Params("id"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(camp)
}

func (r *Campaign) Cancel(c *fiber.Ctx) error {
	camp, err := r.service.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(camp)
}
