package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"contract-workspace/internal/delivery/http/middleware"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/usecase"
)

type EsignHandler struct {
	usecase usecase.EsignUsecase
	logger  *zap.Logger
}

func NewEsignHandler(usecase usecase.EsignUsecase, logger *zap.Logger) *EsignHandler {
	return &EsignHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Send godoc
// @Summary Send for signature
// @Description Build an envelope from the listed recipients, or the contract's counterparties when none are listed, and submit it
// @Tags esign
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body usecase.SendRequest true "Recipients and routing"
// @Success 202 {object} entity.APIResponse
// @Failure 422 {object} entity.APIResponse
// @Router /api/v1/contracts/{id}/send [post]
func (h *EsignHandler) Send(c *fiber.Ctx) error {
	var req usecase.SendRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	result, err := h.usecase.Send(c.UserContext(), middleware.Session(c), c.Params("id"), &req)
	if err != nil {
		h.logger.Error("Failed to send contract for signature",
			zap.String("contract_id", c.Params("id")),
			zap.Error(err),
		)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(entity.NewSuccessResponse(result, "Envelope submitted"))
}

func (h *EsignHandler) RegisterSender(c *fiber.Ctx) error {
	status, err := h.usecase.RegisterSender(c.UserContext(), middleware.Session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(status, "Sender registered"))
}
