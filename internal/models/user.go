package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account. Password only ever holds a bcrypt hash.
type User struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	FirstName       string     `json:"firstName" gorm:"not null"`
	LastName        string     `json:"lastName" gorm:"not null"`
	Email           string     `json:"-" gorm:"uniqueIndex;not null"`
	Username        string     `json:"username" gorm:"uniqueIndex;not null"`
	Password        string     `json:"-" gorm:"not null"`
	DateCreated     time.Time  `json:"dateCreated" gorm:"not null"`
	Token           *string    `json:"-" gorm:"uniqueIndex"`
	TokenExpiration *time.Time `json:"-"`
}

// TableName keeps the table name singular.
func (User) TableName() string {
	return "user"
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Username    string    `json:"username"`
	DateCreated time.Time `json:"dateCreated"`
}

// ToPublicView projects the user without email, password hash or token.
func (u *User) ToPublicView() PublicUser {
	return PublicUser{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Username:    u.Username,
		DateCreated: u.DateCreated,
	}
}

// SetPassword replaces the stored hash with a freshly salted bcrypt hash of
// plaintext. It does not persist the user.
func (u *User) SetPassword(plaintext string, cost int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// TokenValidAt reports whether the user holds a token that is still valid at t.
func (u *User) TokenValidAt(t time.Time) bool {
	return u.Token != nil && u.TokenExpiration != nil && u.TokenExpiration.After(t)
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	Token           string    `json:"token"`
	TokenExpiration time.Time `json:"tokenExpiration"`
}
