package handler

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"contract-workspace/internal/delivery/http/middleware"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/usecase"
)

type ContractHandler struct {
	usecase usecase.ContractUsecase
	logger  *zap.Logger
}

func NewContractHandler(usecase usecase.ContractUsecase, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *ContractHandler) List(c *fiber.Ctx) error {
	contracts, err := h.usecase.List(c.UserContext(), middleware.Session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(contracts, "Contracts retrieved successfully"))
}

func (h *ContractHandler) Get(c *fiber.Ctx) error {
	contract, err := h.usecase.Get(c.UserContext(), middleware.Session(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(contract, "Contract retrieved successfully"))
}

// Create godoc
// @Summary Create contract
// @Description Create a contract from JSON, or from a multipart form whose "file" part is uploaded to storage first
// @Tags contracts
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/contracts [post]
func (h *ContractHandler) Create(c *fiber.Ctx) error {
	var req entity.CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	var file *entity.FileUpload
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		upload, err := readFormFile(c, "file")
		if err != nil {
			return badRequest(c, err.Error())
		}
		file = upload
	}

	contract, err := h.usecase.Create(c.UserContext(), middleware.Session(c), &req, file)
	if err != nil {
		h.logger.Error("Failed to create contract", zap.Error(err))
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(contract, "Contract created"))
}

func (h *ContractHandler) Update(c *fiber.Ctx) error {
	var req entity.UpdateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	contract, err := h.usecase.Update(c.UserContext(), middleware.Session(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(contract, "Contract updated"))
}

func (h *ContractHandler) Delete(c *fiber.Ctx) error {
	if err := h.usecase.Delete(c.UserContext(), middleware.Session(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Contract deleted"))
}

func (h *ContractHandler) AddCounterparty(c *fiber.Ctx) error {
	var req entity.CreateCounterpartyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	contract, err := h.usecase.AddCounterparty(c.UserContext(), middleware.Session(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(contract, "Counterparty added"))
}

func readFormFile(c *fiber.Ctx, field string) (*entity.FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &entity.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}
