package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"contract-workspace/internal/document"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
)

// statusFor maps the error taxonomy onto an HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrAuth):
		return fiber.StatusUnauthorized, entity.CodeUnauthorized
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, document.ErrViewClosed):
		return fiber.StatusNotFound, entity.CodeNotFound
	case errors.Is(err, errs.ErrValidation):
		return fiber.StatusBadRequest, entity.CodeBadRequest
	case errors.Is(err, errs.ErrNoRecipients), errors.Is(err, errs.ErrSerialization):
		return fiber.StatusUnprocessableEntity, entity.CodeUnprocessable
	case errors.Is(err, errs.ErrDownload),
		errors.Is(err, errs.ErrUpload),
		errors.Is(err, errs.ErrUpstream),
		errors.Is(err, errs.ErrMalformedResponse):
		return fiber.StatusBadGateway, entity.CodeUpstream
	default:
		return fiber.StatusInternalServerError, entity.CodeInternal
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(entity.NewErrorResponse(code, err.Error()))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(entity.NewErrorResponse(entity.CodeBadRequest, message))
}
