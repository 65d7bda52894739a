package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"contract-workspace/internal/delivery/http/middleware"
	"contract-workspace/internal/document"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/usecase"
)

// ViewResponse describes an open view without its binary content
type ViewResponse struct {
	ID          string              `json:"id"`
	ContractID  string              `json:"contract_id"`
	StoragePath string              `json:"storage_path"`
	OpenedAt    time.Time           `json:"opened_at"`
	RenderedAt  time.Time           `json:"rendered_at"`
	Rendering   *document.Rendering `json:"rendering"`
	ContentURL  string              `json:"content_url,omitempty"`
}

type SaveDocumentRequest struct {
	Text           string `json:"text"`
}

type PlaceholderRequest struct {
	Text           string `json:"text"`
	// Caret counts UTF-16 code units, as browser selection offsets do
	Caret          int    `json:"caret"`
	RecipientIndex int    `json:"recipient_index"`
}

type DocumentHandler struct {
	usecase usecase.DocumentUsecase
}

func NewDocumentHandler(usecase usecase.DocumentUsecase) *DocumentHandler {
	return &DocumentHandler{usecase: usecase}
}

func newViewResponse(view *document.View, rendering *document.Rendering) *ViewResponse {
	resp := &ViewResponse{
		ID:          view.ID,
		ContractID:  view.ContractID,
		StoragePath: view.StoragePath,
		OpenedAt:    view.OpenedAt,
		RenderedAt:  view.RenderedAt(),
		Rendering:   rendering,
	}
	if rendering != nil && rendering.Handle != nil {
		resp.ContentURL = "/api/v1/views/" + view.ID + "/content"
	}
	return resp
}

// OpenView godoc
// @Summary Open document view
// @Description Fetch and render the contract's current document
// @Tags documents
// @Produce json
// @Param id path string true "Contract ID"
// @Success 201 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/contracts/{id}/views [post]
func (h *DocumentHandler) OpenView(c *fiber.Ctx) error {
	view, rendering, err := h.usecase.OpenView(c.UserContext(), middleware.Session(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(newViewResponse(view, rendering), "View opened"))
}

func (h *DocumentHandler) GetView(c *fiber.Ctx) error {
	view, rendering, err := h.usecase.GetView(middleware.Session(c), c.Params("viewId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(newViewResponse(view, rendering), "View retrieved successfully"))
}

// ViewContent streams the rendered binary with its media type
func (h *DocumentHandler) ViewContent(c *fiber.Ctx) error {
	content, mediaType, err := h.usecase.ViewContent(middleware.Session(c), c.Params("viewId"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, mediaType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(content)
}

func (h *DocumentHandler) RefreshView(c *fiber.Ctx) error {
	view, rendering, err := h.usecase.RefreshView(c.UserContext(), middleware.Session(c), c.Params("viewId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(newViewResponse(view, rendering), "View refreshed"))
}

func (h *DocumentHandler) CloseView(c *fiber.Ctx) error {
	if err := h.usecase.CloseView(middleware.Session(c), c.Params("viewId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "View closed"))
}

// Save godoc
// @Summary Save document text
// @Description Serialize the edited text as DOCX and upload it over the contract's document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param request body SaveDocumentRequest true "Edited text"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/contracts/{id}/document [put]
func (h *DocumentHandler) Save(c *fiber.Ctx) error {
	var req SaveDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	if err := h.usecase.Save(c.UserContext(), middleware.Session(c), c.Params("id"), req.Text); err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Document saved"))
}

func (h *DocumentHandler) InsertPlaceholder(c *fiber.Ctx) error {
	var req PlaceholderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	result, err := h.usecase.InsertPlaceholder(req.Text, req.Caret, req.RecipientIndex)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(result, "Placeholder inserted"))
}
