package middleware

import (
	"fmt"

	pkgError "github.com/fillow/wap-core/pkg/error"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			logrus.WithField("component", "HTTP").Errorf("panic recovered in middleware: %v", recovered)

			if err, ok := recovered.(error); ok {
				_ = pkgError.WriteJSON(ctx, err)
				return
			}

			_ = pkgError.WriteJSON(ctx, pkgError.InternalServerError{Cause: fmt.Errorf("%v", recovered)})
		}()

		return ctx.Next()
	}
}
