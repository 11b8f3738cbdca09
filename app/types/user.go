package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type CreateUserRequest struct {
	Name       string  `json:"name" validate:"required,min=3,max=60,personname"`
	CPF        string  `json:"cpf" validate:"required,cpf"`
	Phone      string  `json:"phone" validate:"omitempty,phone"`
	Email      string  `json:"email" validate:"required,max=50,email"`
	Password   string  `json:"password" validate:"required,max=50"`
	Address    string  `json:"address" validate:"required,max=100"`
	City       string  `json:"city" validate:"required,max=50"`
	State      string  `json:"state" validate:"required,uf"`
	ZipCode    string  `json:"zip_code" validate:"required,max=10"`
	Complement *string `json:"complement,omitempty" validate:"omitempty,max=100"`
}

func NewCreateUserRequestFromContext(ctx echo.Context) (*CreateUserRequest, error) {
	var body CreateUserRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	body.Address = strings.TrimSpace(body.Address)
	body.City = strings.TrimSpace(body.City)
	body.State = strings.TrimSpace(body.State)
	body.ZipCode = strings.TrimSpace(body.ZipCode)
	body.Complement = trimOptional(body.Complement)

	return &body, nil
}

func (r *CreateUserRequest) Validate() error {
	return ValidateStruct(r)
}

// UpdateUserRequest carries a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=3,max=60,personname"`
	CPF        *string `json:"cpf,omitempty" validate:"omitempty,cpf"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email      *string `json:"email,omitempty" validate:"omitempty,max=50,email"`
	Password   *string `json:"password,omitempty" validate:"omitempty,max=50"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=100"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=50"`
	State      *string `json:"state,omitempty" validate:"omitempty,uf"`
	ZipCode    *string `json:"zip_code,omitempty" validate:"omitempty,max=10"`
	Complement *string `json:"complement,omitempty" validate:"omitempty,max=100"`
}

func NewUpdateUserRequestFromContext(ctx echo.Context) (*UpdateUserRequest, error) {
	var body UpdateUserRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Name = trimOptional(body.Name)
	body.Email = trimOptional(body.Email)
	body.Address = trimOptional(body.Address)
	body.City = trimOptional(body.City)
	body.State = trimOptional(body.State)
	body.ZipCode = trimOptional(body.ZipCode)
	body.Complement = trimOptional(body.Complement)

	return &body, nil
}

func (r *UpdateUserRequest) Validate() error {
	return ValidateStruct(r)
}

func (r *UpdateUserRequest) TouchesAddress() bool {
	return r.Address != nil || r.City != nil || r.State != nil || r.ZipCode != nil || r.Complement != nil
}

type BecomeCustomerRequest struct {
	AverageSalary *float64 `json:"average_salary" validate:"required,gte=0"`
}

func NewBecomeCustomerRequestFromContext(ctx echo.Context) (*BecomeCustomerRequest, error) {
	var body BecomeCustomerRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

func (r *BecomeCustomerRequest) Validate() error {
	return ValidateStruct(r)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
