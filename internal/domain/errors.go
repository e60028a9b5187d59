package domain

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the requested id.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when a user with the same email is already stored.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrRoleAlreadyExists is returned when a role with the same name is already stored.
	ErrRoleAlreadyExists = errors.New("role already exists")
	// ErrInvalidRole is returned when a role fails input checks.
	ErrInvalidRole = errors.New("invalid role")
)
