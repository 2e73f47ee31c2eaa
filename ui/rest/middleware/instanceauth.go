package middleware

import (
	"strings"
	"time"

	domainInstance "github.com/fillow/wap-core/domains/instance"
	domainTenant "github.com/fillow/wap-core/domains/tenant"
	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/gofiber/fiber/v2"
)

const localsInstanceKey = "instance"

// InstanceAuth resolves the Authorization: Bearer <instance.token> header
// to an Instance, then enforces the Northbound pre-send check:
// the owning Tenant must be plan-valid AND have the API module enabled.
func InstanceAuth(instances domainInstance.Repository, tenants domainTenant.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if token == "" {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: "missing bearer token"})
		}

		inst, err := instances.GetByToken(c.UserContext(), token)
		if err != nil {
			return pkgError.WriteJSON(c, err)
		}

		tenant, err := tenants.GetByID(c.UserContext(), inst.OwnerTenantID)
		if err != nil {
			return pkgError.WriteJSON(c, err)
		}
		if !tenant.IsPlanValid(time.Now()) || !tenant.ModuleAPI {
			return pkgError.WriteJSON(c, pkgError.PlanDeniedError("tenant plan invalid or API module disabled"))
		}

		c.Locals(localsInstanceKey, inst)
		return c.Next()
	}
}

// InstanceFromLocals retrieves the Instance stashed by InstanceAuth.
func InstanceFromLocals(c *fiber.Ctx) domainInstance.Instance {
	inst, _ := c.Locals(localsInstanceKey).(domainInstance.Instance)
	return inst
}
