package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fillow/wap-core/core/bridge"
	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/fillow/wap-core/ui/rest/middleware"
)

// Profile exposes /profile/* and /users/*.
type Profile struct {
	bridge *bridge.Client
}

func InitRestProfile(app fiber.Router, bridgeClient *bridge.Client) Profile {
	rest := Profile{bridge: bridgeClient}

	app.Get("/profile/info/:jid", rest.Info)
	app.Get("/profile/blocklist", rest.Blocklist)
	app.Put("/profile/manage/status", rest.bridgeAction(bridgeClient.SetProfileStatus))
	app.Post("/profile/manage/picture", rest.SetPicture)
	app.Post("/users/block", rest.jidAction(bridgeClient.BlockUser))
	app.Post("/users/unblock", rest.jidAction(bridgeClient.UnblockUser))
	app.Post("/users/check", rest.Check)

	return rest
}

func (r *Profile) Info(c *fiber.Ctx) error {
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.ProfileInfo(c.UserContext(), inst.SessionID, inst.Token, c.Params("jid"))
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}

func (r *Profile) Blocklist(c *fiber.Ctx) error {
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.Blocklist(c.UserContext(), inst.SessionID, inst.Token)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}

func (r *Profile) bridgeAction(call bridgeCall) fiber.Handler {
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

func (r *Profile) SetPicture(c *fiber.Ctx) error {
	fields, files, names, err := parseMultipart(c)
	if err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.SetProfilePicture(c.UserContext(), inst.SessionID, inst.Token, fields, files, names)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}

func (r *Profile) jidAction(call bridgeJIDCall) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload struct {
			JID string `json:"jid"`
		}
		if err := c.BodyParser(&payload); err != nil {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
		}
		inst := middleware.InstanceFromLocals(c)
		raw, err := call(c.UserContext(), inst.SessionID, inst.Token, payload.JID)
		if err != nil {
			return pkgError.WriteJSON(c, err)
		}
		return c.Send(raw)
	}
}

func (r *Profile) Check(c *fiber.Ctx) error {
	var payload struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}
	inst := middleware.InstanceFromLocals(c)
	raw, err := r.bridge.CheckOnWhatsApp(c.UserContext(), inst.SessionID, inst.Token, payload.Phone)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.Send(raw)
}
