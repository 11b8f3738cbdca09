package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type ListCustomersRequest struct {
	Status string `json:"status,omitempty" query:"status" validate:"omitempty,max=30"`
	From   string `json:"from,omitempty" query:"from" validate:"omitempty,ymd"`
	To     string `json:"to,omitempty" query:"to" validate:"omitempty,ymd"`
}

func NewListCustomersRequestFromContext(ctx echo.Context) (*ListCustomersRequest, error) {
	var body ListCustomersRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Status = strings.TrimSpace(body.Status)
	body.From = strings.TrimSpace(body.From)
	body.To = strings.TrimSpace(body.To)

	return &body, nil
}

func (r *ListCustomersRequest) Validate() error {
	return ValidateStruct(r)
}

type BankStatementRequest struct {
	CPF  string `json:"-" param:"cpf" validate:"required,cpf"`
	From string `json:"from,omitempty" validate:"omitempty,ymd"`
	To   string `json:"to,omitempty" validate:"omitempty,ymd"`
}

func NewBankStatementRequestFromContext(ctx echo.Context) (*BankStatementRequest, error) {
	var body BankStatementRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.CPF = strings.TrimSpace(body.CPF)
	body.From = strings.TrimSpace(body.From)
	body.To = strings.TrimSpace(body.To)

	return &body, nil
}

func (r *BankStatementRequest) Validate() error {
	return ValidateStruct(r)
}

type TransferRequest struct {
	Amount      float64 `json:"amount" validate:"required,gte=0.01,lte=100000"`
	Message     string  `json:"message,omitempty" validate:"omitempty,max=255"`
	ReceiverCPF string  `json:"receiverCPF" validate:"required,cpf"`
}

func NewTransferRequestFromContext(ctx echo.Context) (*TransferRequest, error) {
	var body TransferRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Message = strings.TrimSpace(body.Message)
	body.ReceiverCPF = strings.TrimSpace(body.ReceiverCPF)

	return &body, nil
}

func (r *TransferRequest) Validate() error {
	return ValidateStruct(r)
}
