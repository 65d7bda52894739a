package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/usecase"
)

const sessionLocalKey = "session"

// RequireSession resolves the session cookie and stores the session in the
// request locals. Requests without a live session get a 401.
//
// The cookie value is copied out of the request buffer: the session ID ends
// up as the owner of views that outlive the request.
func RequireSession(auth usecase.AuthUsecase, cookieName string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := auth.Resolve(c.UserContext(), utils.CopyString(c.Cookies(cookieName)))
		if err != nil {
			logger.Debug("Rejected request without session",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(
				entity.NewErrorResponse(entity.CodeUnauthorized, "Authentication required"),
			)
		}
		c.Locals(sessionLocalKey, sess)
		return c.Next()
	}
}

// Session returns the session stored by RequireSession, or nil
func Session(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocalKey).(*session.Session)
	return sess
}
