package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/analytics/internal/logging"
	"github.com/soltixdb/analytics/internal/models"
)

// Computation returns the handlers that guard an analytics route. A panic in
// the route is recovered and, like any other non-HTTP error, answered with a
// generic 400 ANALYTICS_FAILED instead of a 500.
func Computation() []fiber.Handler {
	return []fiber.Handler{computationFailure, recover.New()}
}

func computationFailure(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return err
	}

	logging.FromContext(c.UserContext()).Error("Analytics computation failed",
		"path", c.Path(),
		"error", err)

	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "ANALYTICS_FAILED",
			Message: "Analytics computation failed",
			Path:    c.Path(),
		},
	})
}
