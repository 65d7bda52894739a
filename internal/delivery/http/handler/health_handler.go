package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"contract-workspace/internal/domain/entity"
)

// Version is set at build time with -ldflags "-X ...handler.Version=..."
var Version = "dev"

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version"`
}

// Health godoc
// @Summary Health check
// @Description Check if the gateway is up
// @Tags health
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Version:   Version,
	}, "Service is healthy"))
}
