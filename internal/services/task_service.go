package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"taskapi/internal/models"
	"taskapi/internal/repositories"
)

// CreateTaskInput carries the fields required to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
}

// TaskUpdate is a partial update of a task. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
}

// TaskService handles task reads and author-only mutations.
type TaskService struct {
	taskRepo  repositories.TaskRepository
	userRepo  repositories.UserRepository
	publisher EventPublisher
	log       logrus.FieldLogger
	opts      options
}

// NewTaskService creates a new TaskService. publisher may be nil.
func NewTaskService(taskRepo repositories.TaskRepository, userRepo repositories.UserRepository, publisher EventPublisher, log logrus.FieldLogger, opts ...Option) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		publisher: publisher,
		log:       log,
		opts:      newOptions(opts),
	}
}

// ListTasks retrieves all tasks, optionally filtered by a case-insensitive
// title substring.
func (s *TaskService) ListTasks(search string) ([]models.Task, error) {
	return s.taskRepo.GetAll(search)
}

// GetTaskByID retrieves a single task by ID.
func (s *TaskService) GetTaskByID(id uint) (*models.Task, error) {
	return s.taskRepo.GetByID(id)
}

// CreateTask creates a task authored by authorID, which must exist.
func (s *TaskService) CreateTask(authorID uint, input CreateTaskInput) (*models.Task, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, fmt.Errorf("task author: %w", err)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		DateCreated: s.opts.utcNow(),
		UserID:      author.ID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.Author = *author

	s.log.WithFields(logrus.Fields{"task_id": task.ID, "user_id": author.ID}).Info("task created")
	publishEvent(s.publisher, s.log, Event{Type: EventTaskCreated, ID: task.ID, UserID: author.ID, OccurredAt: task.DateCreated})
	return task, nil
}

// UpdateTask applies update to task id. Only the task's author may update it.
func (s *TaskService) UpdateTask(actor *models.User, id uint, update TaskUpdate) (*models.Task, error) {
	task, err := s.ownedTask(actor, id)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", id, err)
	}

	publishEvent(s.publisher, s.log, Event{Type: EventTaskUpdated, ID: task.ID, UserID: task.UserID, OccurredAt: s.opts.utcNow()})
	return task, nil
}

// DeleteTask removes task id and returns it. Only the task's author may delete it.
func (s *TaskService) DeleteTask(actor *models.User, id uint) (*models.Task, error) {
	task, err := s.ownedTask(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Delete(task.ID); err != nil {
		return nil, fmt.Errorf("failed to delete task %d: %w", id, err)
	}

	s.log.WithFields(logrus.Fields{"task_id": task.ID, "user_id": task.UserID}).Info("task deleted")
	publishEvent(s.publisher, s.log, Event{Type: EventTaskDeleted, ID: task.ID, UserID: task.UserID, OccurredAt: s.opts.utcNow()})
	return task, nil
}

func (s *TaskService) ownedTask(actor *models.User, id uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.ID != task.UserID {
		return nil, fmt.Errorf("user %d is not the author of task %d: %w", actorID(actor), id, ErrForbidden)
	}
	return task, nil
}
