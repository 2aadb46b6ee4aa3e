package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"taskapi/internal/middleware"
	"taskapi/internal/repositories"
	"taskapi/internal/services"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Username  string `json:"username" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,maxbytes=72"`
}

// UpdateUserRequest is the body of PUT /users/:id. Absent fields are unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitnil,min=1,max=100"`
	Password *string `json:"password" validate:"omitnil,min=1,maxbytes=72"`
}

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
	log         logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    newValidator(),
		log:         log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	tokenAuth := middleware.TokenAuth(h.authService)

	users := router.Group("/users")
	users.Post("/", h.HandleCreateUser)
	users.Get("/:id", h.HandleGetUser)
	users.Put("/:id", tokenAuth, h.HandleUpdateUser)
	users.Delete("/:id", tokenAuth, h.HandleDeleteUser)
}

// HandleCreateUser registers a new user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if ok, err := decodeJSON(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.authService.RegisterUser(services.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			h.log.WithField("username", req.Username).Info("registration rejected: duplicate user")
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		return h.userError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user.ToPublicView())
}

// HandleGetUser returns the public view of a single user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return userNotFound(c)
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		return h.userError(c, err)
	}
	return c.JSON(user.ToPublicView())
}

// HandleUpdateUser changes the username and/or password of the caller's own account.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return userNotFound(c)
	}
	var req UpdateUserRequest
	if ok, err := decodeJSON(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.userService.UpdateUser(middleware.CurrentUser(c), id, services.UserUpdate{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			h.log.WithField("target_user_id", id).Warn(err.Error())
			return errorResponse(c, fiber.StatusForbidden, "this is not your user. you do not have permission to edit")
		}
		return h.userError(c, err)
	}
	return c.JSON(user.ToPublicView())
}

// HandleDeleteUser removes the caller's own account together with its tasks.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return userNotFound(c)
	}

	if err := h.userService.DeleteUser(middleware.CurrentUser(c), id); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			h.log.WithField("target_user_id", id).Warn(err.Error())
			return errorResponse(c, fiber.StatusForbidden, "you do not have permission to delete this user")
		}
		return h.userError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": fmt.Sprintf("user %d was successfully deleted", id),
	})
}

func (h *UserHandler) userError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return userNotFound(c)
	case errors.Is(err, services.ErrDuplicateUser):
		return errorResponse(c, fiber.StatusBadRequest, services.ErrDuplicateUser.Error())
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return errorResponse(c, fiber.StatusBadRequest, "password must be at most 72 bytes")
	}
	return err
}

func userNotFound(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusNotFound, fmt.Sprintf("user with an ID of %s does not exist", c.Params("id")))
}
