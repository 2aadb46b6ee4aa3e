package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskapi/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user row.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	return r.first(fmt.Sprintf("ID %d", id), "id = ?", id)
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first(fmt.Sprintf("username %s", username), "username = ?", username)
}

// GetByToken retrieves the user currently holding token. Expiry is not checked here.
func (r *GORMUserRepository) GetByToken(token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token: %w", ErrUserNotFound)
	}
	return r.first("the given token", "token = ?", token)
}

func (r *GORMUserRepository) first(desc string, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s: %w", desc, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user with %s: %w", desc, err)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether any user already uses username or email.
func (r *GORMUserRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for existing user: %w", err)
	}
	return count > 0, nil
}

// Update writes the mutable columns of user: username, password hash and token pair.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username":         user.Username,
		"password":         user.Password,
		"token":            user.Token,
		"token_expiration": user.TokenExpiration,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d for update: %w", user.ID, ErrUserNotFound)
	}
	return nil
}

// Delete removes a user and the tasks they authored in one transaction.
func (r *GORMUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks of user %d: %w", id, err)
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %d for deletion: %w", id, ErrUserNotFound)
		}
		return nil
	})
}
