package repository

import (
	"context"

	"user-manager/internal/domain"
)

// RoleRepository manages the role catalogue.
type RoleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, role *domain.Role) (int64, error)
	List(ctx context.Context) ([]domain.Role, error)
}
