package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"taskapi/internal/models"
	"taskapi/internal/repositories"
)

// UserUpdate is a partial update of a user. Nil fields are left unchanged.
type UserUpdate struct {
	Username *string
	Password *string
}

// UserService handles reads and owner-only mutations of user accounts.
type UserService struct {
	repo      repositories.UserRepository
	publisher EventPublisher
	log       logrus.FieldLogger
	opts      options
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(repo repositories.UserRepository, publisher EventPublisher, log logrus.FieldLogger, opts ...Option) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		opts:      newOptions(opts),
	}
}

// GetUserByID retrieves a single user by ID.
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

// UpdateUser applies update to user id on behalf of actor. Only the account
// owner may update it; a new password is always hashed.
func (s *UserService) UpdateUser(actor *models.User, id uint, update UserUpdate) (*models.User, error) {
	user, err := s.ownedUser(actor, id)
	if err != nil {
		return nil, err
	}

	if update.Username != nil && *update.Username != user.Username {
		existing, err := s.repo.GetByUsername(*update.Username)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, ErrDuplicateUser
		case err != nil && !errors.Is(err, repositories.ErrUserNotFound):
			return nil, err
		}
		user.Username = *update.Username
	}
	if update.Password != nil {
		if err := user.SetPassword(*update.Password, s.opts.hashCost); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	publishEvent(s.publisher, s.log, Event{Type: EventUserUpdated, ID: user.ID, UserID: user.ID, OccurredAt: s.opts.utcNow()})
	return user, nil
}

// DeleteUser removes user id, and every task they authored, on behalf of actor.
func (s *UserService) DeleteUser(actor *models.User, id uint) error {
	user, err := s.ownedUser(actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	s.log.WithField("user_id", user.ID).Info("user deleted")
	publishEvent(s.publisher, s.log, Event{Type: EventUserDeleted, ID: user.ID, UserID: user.ID, OccurredAt: s.opts.utcNow()})
	return nil
}

func (s *UserService) ownedUser(actor *models.User, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.ID != user.ID {
		return nil, fmt.Errorf("user %d may not modify user %d: %w", actorID(actor), id, ErrForbidden)
	}
	return user, nil
}

func actorID(actor *models.User) uint {
	if actor == nil {
		return 0
	}
	return actor.ID
}
