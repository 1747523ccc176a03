// Package handlers implements the fiber HTTP handlers of the costwatch API.
package handlers

import (
	"errors"
	"time"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/costwatch/costwatch/internal/models"
	"github.com/costwatch/costwatch/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Handler contains all HTTP handlers
type Handler struct {
	logger    *logging.Logger
	trends    *services.TrendService
	validator *models.Validator
	analysis  config.AnalysisConfig
	now       func() time.Time
}

// New creates a new handler instance
func New(logger *logging.Logger, trends *services.TrendService, cfg config.AnalysisConfig) *Handler {
	return &Handler{
		logger:    logger,
		trends:    trends,
		validator: models.NewValidator(),
		analysis:  cfg,
		now:       time.Now,
	}
}

// respondError writes err as an ErrorResponse. Service errors keep their
// code and status; anything else is a 500.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.WithContext(c.UserContext()).Error("Unhandled request error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Internal Server Error",
				Path:    c.Path(),
			},
		})
	}
	return c.Status(svcErr.HTTPStatus()).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Path:    c.Path(),
			Details: svcErr.Details,
		},
	})
}
