package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
)

const userSelectColumns = `id, secure_id, name, cpf, phone, email, password, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (secure_id, name, cpf, phone, email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		user.SecureID,
		user.Name,
		user.CPF,
		user.Phone,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = uint64(id)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entity.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *UserRepository) FindBySecureID(ctx context.Context, secureID string) (*entity.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE secure_id = ?`
	return r.findOne(ctx, query, secureID)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE email = ?`
	return r.findOne(ctx, query, email)
}

func (r *UserRepository) FindByCPF(ctx context.Context, cpf string) (*entity.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE cpf = ?`
	return r.findOne(ctx, query, cpf)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	byID := make(map[uint64]*entity.User)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
		byID[user.ID] = user
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return users, nil
	}

	roleRows, err := r.db.QueryContext(ctx, `
		SELECT ur.user_id, r.type
		FROM users_roles ur
		INNER JOIN roles r ON r.id = ur.role_id
		ORDER BY ur.user_id
	`)
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var userID uint64
		var roleType string
		if err := roleRows.Scan(&userID, &roleType); err != nil {
			return nil, err
		}
		if user, ok := byID[userID]; ok {
			user.Roles = user.Roles.With(entity.RoleType(roleType))
		}
	}
	if err = roleRows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET
			name = ?,
			cpf = ?,
			phone = ?,
			email = ?,
			password = ?,
			updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.CPF,
		user.Phone,
		user.Email,
		user.PasswordHash,
		user.UpdatedAt,
		user.ID,
	)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint64, passwordHash string, updatedAt time.Time) error {
	query := `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, passwordHash, updatedAt, userID)
	return err
}

// Delete removes the user. Address and role memberships cascade.
func (r *UserRepository) Delete(ctx context.Context, userID uint64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *UserRepository) AddRole(ctx context.Context, userID uint64, role entity.RoleType) error {
	query := `INSERT INTO users_roles (user_id, role_id) SELECT ?, id FROM roles WHERE type = ?`
	result, err := r.db.ExecContext(ctx, query, userID, string(role))
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (r *UserRepository) RemoveRole(ctx context.Context, userID uint64, role entity.RoleType) (int64, error) {
	query := `
		DELETE ur FROM users_roles ur
		INNER JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = ? AND r.type = ?
	`
	result, err := r.db.ExecContext(ctx, query, userID, string(role))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *UserRepository) Roles(ctx context.Context, userID uint64) (entity.RoleSet, error) {
	query := `
		SELECT r.type FROM roles r
		INNER JOIN users_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ? ORDER BY r.type
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var roles entity.RoleSet
	for rows.Next() {
		var roleType string
		if err := rows.Scan(&roleType); err != nil {
			return 0, err
		}
		roles = roles.With(entity.RoleType(roleType))
	}
	if err = rows.Err(); err != nil {
		return 0, err
	}

	return roles, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	roles, err := r.Roles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return user, nil
}

func scanUser(scan rowScanner) (*entity.User, error) {
	user := &entity.User{}
	if err := scan(
		&user.ID,
		&user.SecureID,
		&user.Name,
		&user.CPF,
		&user.Phone,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return user, nil
}
