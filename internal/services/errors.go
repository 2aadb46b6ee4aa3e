package services

import "errors"

var (
	// ErrInvalidCredentials means the username/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken means the bearer token is unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrForbidden means the caller is authenticated but does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateUser means the username or email is already registered.
	ErrDuplicateUser = errors.New("a user with that username and/or email already exists")
)
