package middleware

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskapi/internal/models"
	"taskapi/internal/services"
)

const currentUserKey = "current_user"

// BasicAuth authenticates the request with HTTP Basic credentials.
func BasicAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, password, ok := parseBasic(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "Basic", "Authorization header format must be 'Basic <credentials>'")
		}

		user, err := authService.AuthenticateBasic(username, password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return unauthorized(c, "Basic", "invalid username or password")
			}
			return err
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// TokenAuth authenticates the request with a bearer token.
func TokenAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := parseBearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "Bearer", "Authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.ValidateToken(token)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				return unauthorized(c, "Bearer", "invalid or expired token")
			}
			return err
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user resolved by BasicAuth or TokenAuth, or nil
// when the route is not authenticated.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, scheme, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, scheme+` realm="Authentication Required"`)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}

func splitAuthorization(header, scheme string) (string, bool) {
	prefix, rest, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(prefix, scheme) {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}

func parseBasic(header string) (username, password string, ok bool) {
	encoded, ok := splitAuthorization(header, "Basic")
	if !ok {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}

func parseBearer(header string) (string, bool) {
	return splitAuthorization(header, "Bearer")
}
