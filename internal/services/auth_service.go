package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"taskapi/internal/models"
	"taskapi/internal/repositories"
)

const (
	// TokenTTL is how long a freshly issued bearer token stays valid.
	TokenTTL = time.Hour
	// TokenRenewWindow is the remaining validity under which a token is replaced
	// instead of reused.
	TokenRenewWindow = time.Minute

	tokenBytes = 16
)

// RegisterUserInput carries the fields required to create a user.
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// AuthService handles registration, credential checks and bearer tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	publisher EventPublisher
	log       logrus.FieldLogger
	opts      options
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(userRepo repositories.UserRepository, publisher EventPublisher, log logrus.FieldLogger, opts ...Option) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		publisher: publisher,
		log:       log,
		opts:      newOptions(opts),
	}
}

// RegisterUser creates a user with a hashed password after making sure
// neither the username nor the email is taken.
func (s *AuthService) RegisterUser(input RegisterUserInput) (*models.User, error) {
	exists, err := s.userRepo.ExistsByUsernameOrEmail(input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	user := &models.User{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Username:    input.Username,
		Email:       input.Email,
		DateCreated: s.opts.utcNow(),
	}
	if err := user.SetPassword(input.Password, s.opts.hashCost); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	publishEvent(s.publisher, s.log, Event{Type: EventUserCreated, ID: user.ID, UserID: user.ID, OccurredAt: user.DateCreated})
	return user, nil
}

// AuthenticateBasic resolves a username/password pair to a user.
func (s *AuthService) AuthenticateBasic(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Do not reveal whether the username exists.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken returns the user's current token while it has more than
// TokenRenewWindow of validity left, otherwise it stores and returns a new one.
func (s *AuthService) IssueToken(user *models.User) (*models.TokenResponse, error) {
	now := s.opts.utcNow()
	if user.TokenValidAt(now.Add(TokenRenewWindow)) {
		return &models.TokenResponse{Token: *user.Token, TokenExpiration: user.TokenExpiration.UTC()}, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	expiration := now.Add(TokenTTL)

	updated := *user
	updated.Token = &token
	updated.TokenExpiration = &expiration
	if err := s.userRepo.Update(&updated); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	*user = updated

	s.log.WithField("user_id", user.ID).Debug("issued new bearer token")
	return &models.TokenResponse{Token: token, TokenExpiration: expiration}, nil
}

// ValidateToken resolves a bearer token to its user if it has not expired.
func (s *AuthService) ValidateToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.TokenValidAt(s.opts.utcNow()) {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
