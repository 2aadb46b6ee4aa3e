package repositories

import "taskapi/internal/models"

// TaskRepository defines the interface for task data access.
// Tasks returned by the getters have their Author loaded.
type TaskRepository interface {
	GetAll(search string) ([]models.Task, error)
	GetByID(id uint) (*models.Task, error)
	Create(task *models.Task) error
	Update(task *models.Task) error
	Delete(id uint) error
}
