package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"taskapi/internal/middleware"
)

// ErrorHandler turns errors returned by handlers into JSON error payloads.
// Anything that is not a *fiber.Error is an unexpected failure and becomes a 500.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": middleware.GetRequestID(c),
				"method":     c.Method(),
				"path":       c.Path(),
			}).Error("unhandled error")
		}
		return errorResponse(c, code, message)
	}
}
