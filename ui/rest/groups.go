package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fillow/wap-core/core/bridge"
	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/fillow/wap-core/ui/rest/middleware"
)

// Groups exposes the /groups/* routes.
type Groups struct {
	bridge *bridge.Client
}

func InitRestGroups(app fiber.Router, bridgeClient *bridge.Client) Groups {
	rest := Groups{bridge: bridgeClient}

	app.Get("/groups/", rest.List)
	app.Post("/groups/create", rest.bridgeAction(bridgeClient.CreateGroup))
	app.Post("/groups/join", rest.bridgeAction(bridgeClient.JoinGroup))

	app.Post("/groups/:gid/participants/:action", rest.Participants)
	app.Post("/groups/:gid/leave", rest.Leave)
	app.Put("/groups/:gid/subject", rest.groupAction(bridgeClient.GroupSubject))
	app.Put("/groups/:gid/description", rest.groupAction(bridgeClient.GroupDescription))
	app.Put("/groups/:gid/settings", rest.groupAction(bridgeClient.GroupSettings))
	app.Get("/groups/:gid/invite-code", rest.InviteCode)
	app.Post("/groups/:gid/revoke-invite", rest.RevokeInvite)

	return rest
}

func (r *Groups) List(c *fiber.Ctx) error {
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.ListGroups(c.UserContext(), inst.SessionID, inst.Token)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}

func (r *Groups) bridgeAction(call bridgeCall) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
		}
		inst := middleware.InstanceFromLocals(c)
		raw, err := call(c.UserContext(), inst.SessionID, inst.Token, payload)
		if err != nil {
			return pkgError.WriteJSON(c, err)
		}
		return c.Send(raw)
	}
}

func (r *Groups) groupAction(call bridgeGroupCall) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
		}
		inst := middleware.InstanceFromLocals(c)
		raw, err := call(c.UserContext(), inst.SessionID, inst.Token, c.Params("gid"), payload)
		if err != nil {
			return pkgError.WriteJSON(c, err)
		}
		return c.Send(raw)
	}
}

func (r *Groups) Participants(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.GroupParticipants(c.UserContext(), inst.SessionID, inst.Token, c.Params("gid"), c.Params("action"), payload)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}

func (r *Groups) Leave(c *fiber.Ctx) error {
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.LeaveGroup(c.UserContext(), inst.SessionID, inst.Token, c.Params("gid"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}

func (r *Groups) InviteCode(c *fiber.Ctx) error {
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.GroupInviteCode(c.UserContext(), inst.SessionID, inst.Token, c.Params("gid"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}

func (r *Groups) RevokeInvite(c *fiber.Ctx) error {
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.GroupRevokeInvite(c.UserContext(), inst.SessionID, inst.Token, c.Params("gid"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}
