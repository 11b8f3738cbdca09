package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
)

type RoleRepository struct {
	db DBTX
}

func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

// Upsert inserts the role or refreshes its description when the type already exists.
func (r *RoleRepository) Upsert(ctx context.Context, role *entity.Role) error {
	query := `
		INSERT INTO roles (type, description, created_at, updated_at)
		VALUES (?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE description = VALUES(description), updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, string(role.Type), role.Description)
	return err
}

func (r *RoleRepository) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, description FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*entity.Role, 0, len(entity.AllRoles))
	for rows.Next() {
		role := &entity.Role{}
		var roleType string
		if err := rows.Scan(&role.ID, &roleType, &role.Description); err != nil {
			return nil, err
		}
		role.Type = entity.RoleType(roleType)
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}
