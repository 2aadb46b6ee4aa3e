package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"taskapi/internal/middleware"
	"taskapi/internal/services"
)

// AuthHandler handles HTTP requests for bearer tokens.
type AuthHandler struct {
	authService *services.AuthService
	log         logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterRoutes registers the token route with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/token", middleware.BasicAuth(h.authService), h.HandleGetToken)
}

// HandleGetToken returns a bearer token for the user authenticated with HTTP
// Basic credentials. A token with more than a minute left is handed out again.
func (h *AuthHandler) HandleGetToken(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return errorResponse(c, fiber.StatusUnauthorized, "authentication required")
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("failed to issue token")
		return err
	}
	return c.JSON(token)
}
