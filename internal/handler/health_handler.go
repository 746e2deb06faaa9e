package handler

import (
	"net/http"

	"mockanytime/internal/config"
	"mockanytime/internal/domain"
	"mockanytime/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process readiness
type HealthHandler struct {
	cfg   *config.Config
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler instance. cache may be nil when
// caching is disabled.
func NewHealthHandler(cfg *config.Config, cache domain.Cache) *HealthHandler {
	return &HealthHandler{cfg: cfg, cache: cache}
}

// Health handles GET /health. Configuration problems and an unreachable cache
// degrade the status but the endpoint itself always answers.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	details := h.cfg.Validate()

	if h.cache != nil {
		if err := h.cache.Ping(c.UserContext()); err != nil {
			details = append(details, "cache is unreachable")
		}
	}

	if len(details) > 0 {
		return c.Status(http.StatusServiceUnavailable).JSON(dto.HealthResponse{
			Status:  "degraded",
			Details: details,
		})
	}
	return c.JSON(dto.HealthResponse{Status: "ok"})
}
