package handlers

import (
	"github.com/costwatch/costwatch/internal/analysis"
	"github.com/costwatch/costwatch/internal/models"
	"github.com/costwatch/costwatch/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Trends handles GET /v1/trends
// Query params: service, days_back, forecast_days (all optional)
func (h *Handler) Trends(c *fiber.Ctx) error {
	result, err := h.analyze(c)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(result)
}

// Recommendations handles GET /v1/trends/recommendations
// It runs the same analysis as Trends and returns only the derived
// recommendation set.
func (h *Handler) Recommendations(c *fiber.Ctx) error {
	result, err := h.analyze(c)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.RecommendationsResponse{
		RunID:           result.RunID,
		AnalysisPeriod:  result.AnalysisPeriod,
		Recommendations: h.trends.GenerateRecommendations(result),
	})
}

func (h *Handler) analyze(c *fiber.Ctx) (*analysis.Result, error) {
	var q models.TrendsQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, services.NewServiceErrorWithDetails(services.CodeInvalidRequest, "Invalid query parameters",
			map[string]interface{}{"error": err.Error()})
	}
	if fields := h.validator.TrendsQuery(q, h.analysis.MaxDaysBack, h.analysis.MaxForecastDays); len(fields) > 0 {
		return nil, services.NewServiceErrorWithDetails(services.CodeInvalidRequest, "Invalid query parameters",
			map[string]interface{}{"fields": fields})
	}

	return h.trends.AnalyzeTrends(c.UserContext(), services.AnalyzeRequest{
		Service:      q.Service,
		DaysBack:     q.DaysBack,
		ForecastDays: q.ForecastDays,
	})
}
