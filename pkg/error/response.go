package error

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON maps any error in this package's taxonomy to a fiber JSON
// response, centralizing the taxonomy->HTTP mapping instead of repeating
// status-code switches in every handler.
func WriteJSON(c *fiber.Ctx, err error) error {
	if coded, ok := err.(Coded); ok {
		body := errorBody{Status: "error", Code: coded.ErrCode(), Message: coded.Error()}
		if v, ok := err.(ValidationError); ok {
			body.Fields = v.Fields
		}
		if coded.StatusCode() >= http.StatusInternalServerError {
			logrus.WithField("component", "HTTP").WithError(err).Error("request failed")
		}
		return c.Status(coded.StatusCode()).JSON(body)
	}

	logrus.WithField("component", "HTTP").WithError(err).Error("unhandled error")
	return c.Status(http.StatusInternalServerError).JSON(errorBody{
		Status:  "error",
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}
