package handler

import (
	"github.com/gofiber/fiber/v2"

	"contract-workspace/internal/delivery/http/middleware"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/usecase"
)

type LogHandler struct {
	usecase usecase.LogUsecase
}

func NewLogHandler(usecase usecase.LogUsecase) *LogHandler {
	return &LogHandler{usecase: usecase}
}

// GetLogs godoc
// @Summary Recent backend calls
// @Description List the caller's persisted backend request logs, newest first
// @Tags logs
// @Produce json
// @Param endpoint query string false "Endpoint substring"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/logs [get]
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	logs, err := h.usecase.Recent(c.UserContext(), middleware.Session(c), c.Query("endpoint"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(logs, "Logs retrieved successfully"))
}
