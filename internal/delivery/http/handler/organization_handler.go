package handler

import (
	"github.com/gofiber/fiber/v2"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/usecase"
)

type OrganizationHandler struct {
	usecase usecase.OrganizationUsecase
}

func NewOrganizationHandler(usecase usecase.OrganizationUsecase) *OrganizationHandler {
	return &OrganizationHandler{usecase: usecase}
}

// Domain godoc
// @Summary Organization lookup
// @Description Find the organization that owns an email's domain. Data is null when none does.
// @Tags organizations
// @Produce json
// @Param email path string true "Email address"
// @Success 200 {object} entity.APIResponse
// @Router /api/v1/organizations/domain/{email} [get]
func (h *OrganizationHandler) Domain(c *fiber.Ctx) error {
	org, err := h.usecase.LookupByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return respondError(c, err)
	}
	if org == nil {
		return c.JSON(entity.NewSuccessResponse(nil, "No organization for this domain"))
	}
	return c.JSON(entity.NewSuccessResponse(org, "Organization found"))
}
