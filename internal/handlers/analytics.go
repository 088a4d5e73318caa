package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/analytics/internal/models"
)

// Predict handles linear regression predictions
// POST /predict
func (h *Handler) Predict(c *fiber.Ctx) error {
	var req models.PredictRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.Predict(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// PredictFutureValues handles yearly trend predictions
// POST /predict-future-values
func (h *Handler) PredictFutureValues(c *fiber.Ctx) error {
	var req models.FuturePredictionRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.PredictFuture(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// AverageByAttribute handles per-group means
// POST /average-by-attribute
func (h *Handler) AverageByAttribute(c *fiber.Ctx) error {
	var req models.GroupRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.AverageByAttribute(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// MedianByAttribute handles per-group medians
// POST /median-by-attribute
func (h *Handler) MedianByAttribute(c *fiber.Ctx) error {
	var req models.GroupRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.MedianByAttribute(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// MinMaxByAttribute handles highest and lowest group means
// POST /min-max-by-attribute
func (h *Handler) MinMaxByAttribute(c *fiber.Ctx) error {
	var req models.GroupRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.MinMaxByAttribute(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// HighestValue handles POST /highest-value
func (h *Handler) HighestValue(c *fiber.Ctx) error {
	var req models.AttributeRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.HighestValue(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// LowestValue handles POST /lowest-value
func (h *Handler) LowestValue(c *fiber.Ctx) error {
	var req models.AttributeRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.LowestValue(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// MedianValue handles POST /median-value
func (h *Handler) MedianValue(c *fiber.Ctx) error {
	var req models.AttributeRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.MedianValue(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// Outliers handles IQR outlier detection
// POST /outliers
func (h *Handler) Outliers(c *fiber.Ctx) error {
	var req models.ValueRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.Outliers(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// CountByTime handles event counts per year, month or day
// POST /count-by-time
func (h *Handler) CountByTime(c *fiber.Ctx) error {
	var req models.CountRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.CountByTime(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}

// ValueGrowth handles year-over-range growth
// POST /value-growth
func (h *Handler) ValueGrowth(c *fiber.Ctx) error {
	var req models.ValueRequest
	if detail := bind(c, &req); detail != nil {
		return unprocessable(c, detail)
	}

	resp, err := h.analyticsService.ValueGrowth(c.UserContext(), &req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.JSON(resp)
}
