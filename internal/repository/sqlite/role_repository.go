package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"user-manager/internal/domain"
	"user-manager/internal/repository"
)

const createRolesTable = `
CREATE TABLE IF NOT EXISTS roles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(50) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRolesTable); err != nil {
		return fmt.Errorf("create roles table: %w", err)
	}
	return nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO roles (name, description, created_at)
VALUES (?, ?, ?)`,
		role.Name,
		role.Description,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert role: %w", domain.ErrRoleAlreadyExists)
		}
		return 0, fmt.Errorf("insert role: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("role last insert id: %w", err)
	}
	role.ID = id
	role.CreatedAt = now
	return id, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, created_at
FROM roles
ORDER BY id ASC`)
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
