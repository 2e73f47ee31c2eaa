package rest

import (
	"github.com/gofiber/fiber/v2"

	domainInstance "github.com/fillow/wap-core/domains/instance"
	pkgError "github.com/fillow/wap-core/pkg/error"
)

// Instance exposes tenant-admin CRUD for Instances, gated by
// middleware.AdminAuth.
type Instance struct {
	usecase domainInstance.IInstanceUsecase
}

func InitRestInstance(app fiber.Router, usecase domainInstance.IInstanceUsecase) Instance {
	rest := Instance{usecase: usecase}

	app.Post("/instances", rest.Create)
	app.Get("/instances", rest.List)
	app.Get("/instances/:id", rest.GetByID)
	app.Delete("/instances/:id", rest.Delete)

	return rest
}

type createInstanceBody struct {
	OwnerTenantID string `json:"owner_tenant_id"`
	Name          string `json:"name"`
}

func (r *Instance) Create(c *fiber.Ctx) error {
	var body createInstanceBody
	if err := c.BodyParser(&body); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}

	inst, err := r.usecase.Create(c.UserContext(), body.OwnerTenantID, domainInstance.CreateInstanceRequest{Name: body.Name})
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(inst)
}

func (r *Instance) List(c *fiber.Ctx) error {
	ownerTenantID := c.Query("owner_tenant_id")
	list, err := r.usecase.List(c.UserContext(), ownerTenantID)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(list)
}

func (r *Instance) GetByID(c *fiber.Ctx) error {
	inst, err := r.usecase.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(inst)
}

func (r *Instance) Delete(c *fiber.Ctx) error {
	if err := r.usecase.Delete(c.UserContext(), c.Params("id")); err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
