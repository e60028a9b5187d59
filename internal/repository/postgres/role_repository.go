package postgres

import (
	"context"
	"fmt"

	"user-manager/internal/domain"
	"user-manager/internal/repository"
)

const createRolesTable = `
CREATE TABLE IF NOT EXISTS roles (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(50) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type RoleRepository struct {
	db DB
}

func NewRoleRepository(db DB) repository.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Init(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createRolesTable); err != nil {
		return fmt.Errorf("create roles table: %w", err)
	}
	return nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (int64, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, role.Name, role.Description)

	if err := row.Scan(&role.ID, &role.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert role: %w", domain.ErrRoleAlreadyExists)
		}
		return 0, fmt.Errorf("insert role: %w", err)
	}
	return role.ID, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at FROM roles ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
