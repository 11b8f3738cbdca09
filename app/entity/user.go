package entity

import (
	"database/sql"
	"time"
)

type User struct {
	ID           uint64
	SecureID     string
	Name         string
	CPF          string
	Phone        string
	Email        string
	PasswordHash string
	Roles        RoleSet
	Address      *Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) HasRole(role RoleType) bool {
	return u.Roles.Has(role)
}

type Address struct {
	ID         uint64
	UserID     uint64
	Street     string
	City       string
	State      string
	ZipCode    string
	Complement sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ResetPassToken is a single-use password reset credential bound to an email.
type ResetPassToken struct {
	ID        uint64
	Token     string
	Email     string
	Used      bool
	CreatedAt time.Time
}

// Expired reports whether the token is at least ttl old at now.
func (t *ResetPassToken) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(t.CreatedAt) >= ttl
}
