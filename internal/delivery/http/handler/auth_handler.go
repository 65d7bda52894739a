package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/delivery/http/middleware"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/usecase"
)

type AuthHandler struct {
	usecase usecase.AuthUsecase
	config  *config.Config
	logger  *zap.Logger
}

func NewAuthHandler(usecase usecase.AuthUsecase, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		usecase: usecase,
		config:  cfg,
		logger:  logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchange credentials for a session cookie; tokens stay server-side
// @Tags auth
// @Accept json
// @Produce json
// @Param request body entity.LoginRequest true "Credentials"
// @Success 200 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req entity.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	info, err := h.usecase.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, info.SessionID)
	return c.JSON(entity.NewSuccessResponse(info, "Logged in"))
}

// Register godoc
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body entity.RegisterRequest true "Account"
// @Success 201 {object} entity.APIResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req entity.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	info, err := h.usecase.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, info.SessionID)
	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(info, "Account registered"))
}

// Logout forgets the session and expires every cookie the browser sent
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.usecase.Logout(c.UserContext(), middleware.Session(c)); err != nil {
		h.logger.Warn("Failed to destroy session", zap.Error(err))
	}
	c.ClearCookie()
	return c.JSON(entity.NewSuccessResponse(nil, "Logged out"))
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.usecase.Profile(c.UserContext(), middleware.Session(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(profile, "Profile retrieved successfully"))
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, id string) {
	cookie := &fiber.Cookie{
		Name:     h.config.Session.CookieName,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if ttl := h.config.Session.TTL; ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
	}
	c.Cookie(cookie)
}
