package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"taskapi/internal/middleware"
	"taskapi/internal/models"
	"taskapi/internal/repositories"
	"taskapi/internal/services"
)

// CreateTaskRequest is the body of POST /tasks. The author is always the caller.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Absent fields are unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,min=1"`
}

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	authService *services.AuthService
	taskService *services.TaskService
	validate    *validator.Validate
	log         logrus.FieldLogger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(authService *services.AuthService, taskService *services.TaskService, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{
		authService: authService,
		taskService: taskService,
		validate:    newValidator(),
		log:         log,
	}
}

// RegisterRoutes registers the task routes with the Fiber app.
func (h *TaskHandler) RegisterRoutes(router fiber.Router) {
	tokenAuth := middleware.TokenAuth(h.authService)

	tasks := router.Group("/tasks")
	tasks.Get("/", h.HandleListTasks)
	tasks.Post("/", tokenAuth, h.HandleCreateTask)
	tasks.Get("/:id", h.HandleGetTask)
	tasks.Put("/:id", tokenAuth, h.HandleUpdateTask)
	tasks.Delete("/:id", tokenAuth, h.HandleDeleteTask)
}

// HandleListTasks returns every task, optionally filtered by ?search= on the title.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	tasks, err := h.taskService.ListTasks(c.Query("search"))
	if err != nil {
		return err
	}

	views := make([]models.PublicTask, 0, len(tasks))
	for i := range tasks {
		views = append(views, tasks[i].ToPublicView())
	}
	return c.JSON(views)
}

// HandleGetTask returns a single task.
func (h *TaskHandler) HandleGetTask(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return taskNotFound(c)
	}

	task, err := h.taskService.GetTaskByID(id)
	if err != nil {
		return h.taskError(c, err)
	}
	return c.JSON(task.ToPublicView())
}

// HandleCreateTask creates a task authored by the caller.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if ok, err := decodeJSON(c, h.validate, &req); !ok {
		return err
	}

	author := middleware.CurrentUser(c)
	if author == nil {
		return errorResponse(c, fiber.StatusUnauthorized, "authentication required")
	}
	task, err := h.taskService.CreateTask(author.ID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return errorResponse(c, fiber.StatusUnauthorized, "authentication required")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task.ToPublicView())
}

// HandleUpdateTask changes the title and/or description of one of the caller's tasks.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return taskNotFound(c)
	}
	var req UpdateTaskRequest
	if ok, err := decodeJSON(c, h.validate, &req); !ok {
		return err
	}

	task, err := h.taskService.UpdateTask(middleware.CurrentUser(c), id, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			h.log.WithField("task_id", id).Warn(err.Error())
			return errorResponse(c, fiber.StatusForbidden, "this is not your task. you do not have permission to edit")
		}
		return h.taskError(c, err)
	}
	return c.JSON(task.ToPublicView())
}

// HandleDeleteTask removes one of the caller's tasks.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return taskNotFound(c)
	}

	task, err := h.taskService.DeleteTask(middleware.CurrentUser(c), id)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			h.log.WithField("task_id", id).Warn(err.Error())
			return errorResponse(c, fiber.StatusForbidden, "you do not have permission to delete this task")
		}
		return h.taskError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": fmt.Sprintf("%s was successfully deleted", task.Title),
	})
}

func (h *TaskHandler) taskError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrTaskNotFound) {
		return taskNotFound(c)
	}
	return err
}

func taskNotFound(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusNotFound, fmt.Sprintf("task with an ID of %s does not exist", c.Params("id")))
}
