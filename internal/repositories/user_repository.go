package repositories

import "taskapi/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByToken(token string) (*models.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	Update(user *models.User) error
	Delete(id uint) error
}
