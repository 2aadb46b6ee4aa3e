package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskapi/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// GetAll retrieves all tasks ordered by ID. A non-empty search keeps only the
// tasks whose title contains it, ignoring case.
func (r *GORMTaskRepository) GetAll(search string) ([]models.Task, error) {
	query := r.db.Preload("Author").Order("id")
	if search != "" {
		// Both sides are folded by the database so they fold the same way.
		pattern := "%" + likeEscaper.Replace(search) + "%"
		query = query.Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a single task by its ID.
func (r *GORMTaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Author").First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %d: %w", id, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to get task by ID %d: %w", id, err)
	}
	return &task, nil
}

// Create inserts a new task row. The author association is never written.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if err := r.db.Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Update writes the title and description of an existing task.
func (r *GORMTaskRepository) Update(task *models.Task) error {
	res := r.db.Model(&models.Task{}).Where("id = ?", task.ID).Updates(map[string]any{
		"title":       task.Title,
		"description": task.Description,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %d for update: %w", task.ID, ErrTaskNotFound)
	}
	return nil
}

// Delete deletes a task by its ID.
func (r *GORMTaskRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %d for deletion: %w", id, ErrTaskNotFound)
	}
	return nil
}
