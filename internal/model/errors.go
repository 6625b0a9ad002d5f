package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email registered already")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedHash      = errors.New("stored password hash is malformed")

	// Token related errors
	ErrTokenRevoked = errors.New("token revoked")

	// Task related errors
	ErrTaskNotFound = errors.New("task not found")

	// Generic errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)
