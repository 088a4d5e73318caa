package handlers

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/analytics/internal/config"
	"github.com/soltixdb/analytics/internal/logging"
	"github.com/soltixdb/analytics/internal/models"
	"github.com/soltixdb/analytics/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	analyticsService *services.AnalyticsService
	service          config.ServiceConfig
}

// New creates a new handler instance
func New(analyticsService *services.AnalyticsService, service config.ServiceConfig) *Handler {
	return &Handler{
		analyticsService: analyticsService,
		service:          service,
	}
}

// bind decodes a request body into req. The body is either an object carrying
// "data" and the parameters, or a bare array of events whose parameters are
// read from the query string. It returns nil on success.
func bind(c *fiber.Ctx, req models.EventsPayload) *models.ErrorDetail {
	decode := c.App().Config().JSONDecoder
	body := bytes.TrimSpace(c.Body())

	if len(body) > 0 && body[0] == '[' {
		if err := c.QueryParser(req); err != nil {
			return invalid("INVALID_REQUEST", "Failed to parse query parameters", err)
		}
		if err := decode(body, req.EventList()); err != nil {
			return invalid("INVALID_JSON", "Failed to parse JSON body", err)
		}
	} else if err := decode(body, req); err != nil {
		return invalid("INVALID_JSON", "Failed to parse JSON body", err)
	}

	if err := req.Validate(); err != nil {
		return invalid("INVALID_REQUEST", err.Error(), nil)
	}
	return nil
}

func invalid(code, message string, cause error) *models.ErrorDetail {
	detail := &models.ErrorDetail{
		Code:    code,
		Message: message,
	}
	if cause != nil {
		detail.Details = map[string]interface{}{"error": cause.Error()}
	}
	return detail
}

// unprocessable writes a 422 response for a request that failed to bind
func unprocessable(c *fiber.Ctx, detail *models.ErrorDetail) error {
	detail.Path = c.Path()
	return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: *detail})
}

// handleServiceError maps a service failure to a 400 response. Every engine
// error describes bad input, so none of them is a server error.
func (h *Handler) handleServiceError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Path:    c.Path(),
				Details: svcErr.Details,
			},
		})
	}

	logging.FromContext(c.UserContext()).Error("Analytics computation failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "ANALYTICS_FAILED",
			Message: err.Error(),
			Path:    c.Path(),
		},
	})
}
