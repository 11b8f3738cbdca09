package dto

import (
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AddressResponse struct {
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	ZipCode    string    `json:"zip_code"`
	Complement *string   `json:"complement"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserResponse is the public view of a user. The password hash is never part of it.
type UserResponse struct {
	SecureID  string           `json:"secure_id"`
	Name      string           `json:"name"`
	CPF       string           `json:"cpf"`
	Phone     string           `json:"phone"`
	Email     string           `json:"email"`
	Roles     entity.RoleSet   `json:"roles"`
	Address   *AddressResponse `json:"address,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}

	resp := &UserResponse{
		SecureID:  user.SecureID,
		Name:      user.Name,
		CPF:       user.CPF,
		Phone:     user.Phone,
		Email:     user.Email,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.Address != nil {
		resp.Address = &AddressResponse{
			Address:   user.Address.Street,
			City:      user.Address.City,
			State:     user.Address.State,
			ZipCode:   user.Address.ZipCode,
			CreatedAt: user.Address.CreatedAt,
			UpdatedAt: user.Address.UpdatedAt,
		}
		if user.Address.Complement.Valid {
			complement := user.Address.Complement.String
			resp.Address.Complement = &complement
		}
	}

	return resp
}

func NewUserResponses(users []*entity.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

type SessionToken struct {
	Type      string     `json:"type"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type LoginResponse struct {
	Token SessionToken  `json:"token"`
	User  *UserResponse `json:"user"`
}

type BecomeCustomerResponse struct {
	Result string        `json:"result"`
	User   *UserResponse `json:"user"`
}
