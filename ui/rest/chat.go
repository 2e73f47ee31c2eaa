package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fillow/wap-core/core/bridge"
	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/fillow/wap-core/ui/rest/middleware"
)

// Chat exposes the /chat/manage/{archive|mute|clear|mark-read} routes
//, passing straight through to the Bridge under the calling
// Instance's session/token.
type Chat struct {
	bridge *bridge.Client
}

func InitRestChat(app fiber.Router, bridgeClient *bridge.Client) Chat {
	rest := Chat{bridge: bridgeClient}

	app.Post("/chat/manage/archive", rest.bridgeAction(bridgeClient.ArchiveChat))
	app.Post("/chat/manage/mute", rest.bridgeAction(bridgeClient.MuteChat))
	app.Post("/chat/manage/clear", rest.bridgeAction(bridgeClient.ClearChat))
	app.Post("/chat/manage/mark-read", rest.bridgeAction(bridgeClient.MarkChatRead))

	return rest
}

func (r *Chat) bridgeAction(call bridgeCall) fiber.Handler {
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
