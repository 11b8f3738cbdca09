package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
)

type AddressRepository struct {
	db DBTX
}

func NewAddressRepository(db DBTX) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Create(ctx context.Context, address *entity.Address) error {
	query := `
		INSERT INTO addresses (user_id, address, city, state, zip_code, complement, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.ZipCode,
		address.Complement,
		address.CreatedAt,
		address.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	address.ID = uint64(id)
	return nil
}

func (r *AddressRepository) FindByUserID(ctx context.Context, userID uint64) (*entity.Address, error) {
	query := `
		SELECT id, user_id, address, city, state, zip_code, complement, created_at, updated_at
		FROM addresses WHERE user_id = ?
	`
	address := &entity.Address{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&address.ID,
		&address.UserID,
		&address.Street,
		&address.City,
		&address.State,
		&address.ZipCode,
		&address.Complement,
		&address.CreatedAt,
		&address.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (r *AddressRepository) Update(ctx context.Context, address *entity.Address) error {
	query := `
		UPDATE addresses SET
			address = ?,
			city = ?,
			state = ?,
			zip_code = ?,
			complement = ?,
			updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		address.Street,
		address.City,
		address.State,
		address.ZipCode,
		address.Complement,
		address.UpdatedAt,
		address.ID,
	)
	return err
}
