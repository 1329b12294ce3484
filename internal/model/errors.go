package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Post related errors
	ErrPostNotFound = errors.New("post not found")

	// Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrValidation = errors.New("validation failed")
)
