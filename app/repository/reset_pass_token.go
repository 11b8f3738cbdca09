package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
)

const resetTokenSelectColumns = `id, token, email, used, created_at`

type ResetPassTokenRepository struct {
	db DBTX
}

func NewResetPassTokenRepository(db DBTX) *ResetPassTokenRepository {
	return &ResetPassTokenRepository{db: db}
}

func (r *ResetPassTokenRepository) Create(ctx context.Context, token *entity.ResetPassToken) error {
	query := `INSERT INTO reset_pass_tokens (token, email, used, created_at) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, token.Token, token.Email, token.Used, token.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

func (r *ResetPassTokenRepository) FindLatestByEmail(ctx context.Context, email string) (*entity.ResetPassToken, error) {
	query := `SELECT ` + resetTokenSelectColumns + ` FROM reset_pass_tokens WHERE email = ? ORDER BY id DESC LIMIT 1`
	return r.findOne(ctx, query, email)
}

func (r *ResetPassTokenRepository) FindByTokenForUpdate(ctx context.Context, token string) (*entity.ResetPassToken, error) {
	query := `SELECT ` + resetTokenSelectColumns + ` FROM reset_pass_tokens WHERE token = ? FOR UPDATE`
	return r.findOne(ctx, query, token)
}

func (r *ResetPassTokenRepository) MarkUsed(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE reset_pass_tokens SET used = 1 WHERE id = ?`, id)
	return err
}

func (r *ResetPassTokenRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.ResetPassToken, error) {
	token := &entity.ResetPassToken{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&token.ID,
		&token.Token,
		&token.Email,
		&token.Used,
		&token.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}
