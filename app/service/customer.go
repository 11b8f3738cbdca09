package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vibast-solutions/ms-go-lubycash/app/client/banking"
	"github.com/vibast-solutions/ms-go-lubycash/app/types"
)

type BankingClient interface {
	ListCustomers(ctx context.Context, params banking.ListCustomersParams) (*banking.Response, error)
	BankStatement(ctx context.Context, params banking.StatementParams) (*banking.Response, error)
	CreateTransfer(ctx context.Context, payload banking.TransferPayload) (*banking.Response, error)
	CreateCustomer(ctx context.Context, payload banking.CustomerPayload) (*banking.Response, error)
}

// ProxyResult is a downstream reply forwarded to the caller as is.
type ProxyResult struct {
	Status      int
	ContentType string
	Body        []byte
}

type CustomerService interface {
	ListCustomers(ctx context.Context, req *types.ListCustomersRequest) (*ProxyResult, error)
	BankStatement(ctx context.Context, req *types.BankStatementRequest) (*ProxyResult, error)
	MakeTransfer(ctx context.Context, senderID uint64, req *types.TransferRequest) (*ProxyResult, error)
}

type customerService struct {
	userRepo userRepository
	banking  BankingClient
}

func NewCustomerService(userRepo userRepository, bankingClient BankingClient) CustomerService {
	return &customerService{userRepo: userRepo, banking: bankingClient}
}

// ValidateDateRange requires both bounds or neither, each a real YYYY-MM-DD date.
func ValidateDateRange(from, to string) error {
	if from == "" && to == "" {
		return nil
	}
	if from == "" || to == "" {
		return fmt.Errorf("%w: from and to must be provided together", ErrValidation)
	}
	if !types.IsValidDate(from) {
		return fmt.Errorf("%w: from must be a date formatted as YYYY-MM-DD", ErrValidation)
	}
	if !types.IsValidDate(to) {
		return fmt.Errorf("%w: to must be a date formatted as YYYY-MM-DD", ErrValidation)
	}
	return nil
}

func (s *customerService) ListCustomers(ctx context.Context, req *types.ListCustomersRequest) (*ProxyResult, error) {
	if err := ValidateDateRange(req.From, req.To); err != nil {
		return nil, err
	}

	resp, err := s.banking.ListCustomers(ctx, banking.ListCustomersParams{
		Status: req.Status,
		From:   req.From,
		To:     req.To,
	})
	return proxyResponse(resp, err)
}

func (s *customerService) BankStatement(ctx context.Context, req *types.BankStatementRequest) (*ProxyResult, error) {
	if err := ValidateDateRange(req.From, req.To); err != nil {
		return nil, err
	}
	if !types.IsValidCPF(req.CPF) {
		return nil, fmt.Errorf("%w: cpf must match ddd.ddd.ddd-dd", ErrValidation)
	}

	resp, err := s.banking.BankStatement(ctx, banking.StatementParams{
		CPF:  req.CPF,
		From: req.From,
		To:   req.To,
	})
	return proxyResponse(resp, err)
}

func (s *customerService) MakeTransfer(ctx context.Context, senderID uint64, req *types.TransferRequest) (*ProxyResult, error) {
	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrUserNotFound
	}

	resp, err := s.banking.CreateTransfer(ctx, banking.TransferPayload{
		SenderCPF:   sender.CPF,
		ReceiverCPF: req.ReceiverCPF,
		Amount:      req.Amount,
		Message:     req.Message,
	})
	return proxyResponse(resp, err)
}

// proxyResponse maps a banking reply: transport failures become ErrUpstreamUnavailable,
// known error codes become an UpstreamError with their mapped status, and any other
// error status is reported as 400 with the downstream payload unchanged.
func proxyResponse(resp *banking.Response, err error) (*ProxyResult, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err.Error())
	}

	apiErr, outcome, known := resp.Translate()
	if known {
		return nil, &UpstreamError{
			Status:      outcome.Status,
			Token:       outcome.Token,
			Code:        apiErr.Code,
			Message:     apiErr.Message,
			ContentType: resp.ContentType,
			Body:        resp.Body,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		upstream := &UpstreamError{
			Status:      http.StatusBadRequest,
			ContentType: resp.ContentType,
			Body:        resp.Body,
		}
		if apiErr != nil {
			upstream.Code = apiErr.Code
			upstream.Message = apiErr.Message
		}
		return nil, upstream
	}

	return &ProxyResult{Status: resp.StatusCode, ContentType: resp.ContentType, Body: resp.Body}, nil
}
