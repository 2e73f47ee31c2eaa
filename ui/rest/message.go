package rest

import (
	"context"

	"github.com/gofiber/fiber/v2"

	domainInstance "github.com/fillow/wap-core/domains/instance"
	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/fillow/wap-core/ui/rest/middleware"
	"github.com/fillow/wap-core/usecase"
)

// Message exposes the Northbound message-send and message-management
// routes. Every route sits behind middleware.InstanceAuth.
type Message struct {
	service *usecase.MessageService
}

func InitRestMessage(app fiber.Router, service *usecase.MessageService) Message {
	rest := Message{service: service}

	app.Post("/message/send", rest.SendText)
	app.Post("/message/send-media", rest.SendMedia)
	app.Post("/message/send-voice", rest.SendVoice)
	app.Post("/message/poll", rest.action(service.SendPoll))
	app.Post("/message/location", rest.action(service.SendLocation))
	app.Post("/message/contact", rest.action(service.SendContact))
	app.Post("/message/reaction", rest.action(service.SendReaction))
	app.Post("/message/manage/edit", rest.action(service.EditMessage))
	app.Post("/message/manage/delete", rest.action(service.DeleteMessage))
	app.Post("/message/manage/pin", rest.action(service.PinMessage))
	app.Post("/message/manage/unpin", rest.action(service.UnpinMessage))
	app.Post("/message/manage/star", rest.action(service.StarMessage))

	return rest
}

func (r *Message) SendText(c *fiber.Ctx) error {
	var req usecase.SendTextRequest
	if err := c.BodyParser(&req); err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}

	inst := middleware.InstanceFromLocals(c)
	result, err := r.service.SendText(c.UserContext(), inst, req)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(result)
}

func (r *Message) SendMedia(c *fiber.Ctx) error {
	fields, files, names, err := parseMultipart(c)
	if err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}
	inst := middleware.InstanceFromLocals(c)
	result, err := r.service.SendMedia(c.UserContext(), inst, fields, files, names)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(result)
}

func (r *Message) SendVoice(c *fiber.Ctx) error {
	fields, files, names, err := parseMultipart(c)
	if err != nil {
		return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
	}
	inst := middleware.InstanceFromLocals(c)
	result, err := r.service.SendVoice(c.UserContext(), inst, fields, files, names)
	if err != nil {
		return pkgError.WriteJSON(c, err)
	}
	return c.JSON(result)
}

// action adapts one of MessageService's simple passthrough methods
// (payload in, Bridge response out) into a fiber handler, avoiding a
// near-identical handler body per interactive/management route.
func (r *Message) action(call func(ctx context.Context, inst domainInstance.Instance, payload any) (any, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil {
			return pkgError.WriteJSON(c, pkgError.ValidationError{Message: err.Error()})
		}
		inst := middleware.InstanceFromLocals(c)
		result, err := call(c.UserContext(), inst, payload)
		if err != nil {
			return pkgError.WriteJSON(c, err)
		}
		return c.JSON(result)
	}
}

func parseMultipart(c *fiber.Ctx) (fields map[string]string, files map[string][]byte, names map[string]string, err error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil, err
	}

	fields = map[string]string{}
	for k, v := range form.Value {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	files = map[string][]byte{}
	names = map[string]string{}
	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, nil, nil, err
		}
		buf := make([]byte, fh.Size)
		if _, err := f.Read(buf); err != nil {
			f.Close()
			return nil, nil, nil, err
		}
		f.Close()
		files[field] = buf
		names[field] = fh.Filename
	}

	return fields, files, names, nil
}
