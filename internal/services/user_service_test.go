package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskapi/internal/logging"
	"taskapi/internal/models"
	"taskapi/internal/repositories"
	"taskapi/internal/services"
)

func strPtr(s string) *string { return &s }

func newUserService(repo *MockUserRepository, pub services.EventPublisher) *services.UserService {
	return services.NewUserService(repo, pub, logging.Discard(), services.WithHashCost(bcrypt.MinCost))
}

func TestUserService_GetUserByID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newUserService(mockRepo, nil)

	mockRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1, Username: "ada"}, nil).Once()
	user, err := service.GetUserByID(1)
	assert.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	mockRepo.On("GetByID", uint(99)).Return(nil, fmt.Errorf("user with ID 99: %w", repositories.ErrUserNotFound)).Once()
	_, err = service.GetUserByID(99)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUserHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockPub := new(MockPublisher)
	service := newUserService(mockRepo, mockPub)
	actor := userWithPassword(t, 1, "ada", "old-password")
	stored := *actor

	mockRepo.On("GetByID", uint(1)).Return(&stored, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockPub.On("PublishEvent", services.EventUserUpdated, mock.Anything).Return(nil).Once()

	updated, err := service.UpdateUser(actor, 1, services.UserUpdate{Password: strPtr("new-password")})
	require.NoError(t, err)
	assert.NotEqual(t, "new-password", updated.Password)
	assert.True(t, updated.CheckPassword("new-password"))
	assert.False(t, updated.CheckPassword("old-password"))
	assert.Equal(t, "ada", updated.Username)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestUserService_UpdateUserUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newUserService(mockRepo, nil)
	actor := &models.User{ID: 1, Username: "ada"}

	mockRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1, Username: "ada", Password: "hash"}, nil).Once()
	mockRepo.On("GetByUsername", "countess").Return(nil, fmt.Errorf("user with username countess: %w", repositories.ErrUserNotFound)).Once()
	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "countess" && u.Password == "hash"
	})).Return(nil).Once()

	updated, err := service.UpdateUser(actor, 1, services.UserUpdate{Username: strPtr("countess")})
	require.NoError(t, err)
	assert.Equal(t, "countess", updated.Username)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUserUsernameTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newUserService(mockRepo, nil)
	actor := &models.User{ID: 1, Username: "ada"}

	mockRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1, Username: "ada"}, nil).Once()
	mockRepo.On("GetByUsername", "bob").Return(&models.User{ID: 2, Username: "bob"}, nil).Once()

	_, err := service.UpdateUser(actor, 1, services.UserUpdate{Username: strPtr("bob")})
	assert.ErrorIs(t, err, services.ErrDuplicateUser)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUserService_UpdateUserForbidden(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newUserService(mockRepo, nil)
	actor := &models.User{ID: 2, Username: "bob"}

	mockRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1, Username: "ada"}, nil).Once()

	_, err := service.UpdateUser(actor, 1, services.UserUpdate{Username: strPtr("mallory")})
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUserService_UpdateUserNotFoundBeforeForbidden(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newUserService(mockRepo, nil)

	mockRepo.On("GetByID", uint(7)).Return(nil, fmt.Errorf("user with ID 7: %w", repositories.ErrUserNotFound)).Once()

	_, err := service.UpdateUser(&models.User{ID: 2}, 7, services.UserUpdate{})
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockPub := new(MockPublisher)
	service := newUserService(mockRepo, mockPub)
	actor := &models.User{ID: 1}

	mockRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1}, nil).Once()
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	mockPub.On("PublishEvent", services.EventUserDeleted, mock.MatchedBy(func(e services.Event) bool {
		return e.ID == 1 && e.UserID == 1
	})).Return(nil).Once()

	assert.NoError(t, service.DeleteUser(actor, 1))
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestUserService_DeleteUserForbidden(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newUserService(mockRepo, nil)

	mockRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1}, nil).Once()

	err := service.DeleteUser(&models.User{ID: 2}, 1)
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)

	mockRepo.On("GetByID", uint(1)).Return(&models.User{ID: 1}, nil).Once()
	assert.ErrorIs(t, service.DeleteUser(nil, 1), services.ErrForbidden)
}
