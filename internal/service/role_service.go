package service

import (
	"context"
	"fmt"
	"strings"

	"user-manager/internal/domain"
	"user-manager/internal/repository"
)

// RoleService manages the role catalogue.
type RoleService interface {
	CreateRole(ctx context.Context, name, description string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
}

type roleService struct {
	roles repository.RoleRepository
}

func NewRoleService(roles repository.RoleRepository) RoleService {
	return &roleService{roles: roles}
}

func (s *roleService) CreateRole(ctx context.Context, name, description string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRole)
	}

	role := &domain.Role{
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if _, err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}
