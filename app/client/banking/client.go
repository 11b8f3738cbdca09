package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/metrics"

	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 4 << 20

// Response is the raw downstream reply.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type ListCustomersParams struct {
	Status string
	From   string
	To     string
}

type StatementParams struct {
	CPF  string
	From string
	To   string
}

type TransferPayload struct {
	SenderCPF   string  `json:"senderCPF"`
	ReceiverCPF string  `json:"receiverCPF"`
	Amount      float64 `json:"amount"`
	Message     string  `json:"message,omitempty"`
}

type CustomerPayload struct {
	Name          string  `json:"name"`
	CPF           string  `json:"cpf"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	ZipCode       string  `json:"zip_code"`
	AverageSalary float64 `json:"average_salary"`
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: metrics.InstrumentTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListCustomers(ctx context.Context, params ListCustomersParams) (*Response, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	addRange(query, params.From, params.To)

	return c.do(ctx, http.MethodGet, "/customers", query, nil)
}

func (c *Client) BankStatement(ctx context.Context, params StatementParams) (*Response, error) {
	query := url.Values{}
	addRange(query, params.From, params.To)

	return c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(params.CPF)+"/statement", query, nil)
}

func (c *Client) CreateTransfer(ctx context.Context, payload TransferPayload) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/transfers", nil, payload)
}

func (c *Client) CreateCustomer(ctx context.Context, payload CustomerPayload) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/customers", nil, payload)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}) (*Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode banking request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Warn("Banking request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("Banking request completed")

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

func addRange(query url.Values, from, to string) {
	if from != "" {
		query.Set("from", from)
	}
	if to != "" {
		query.Set("to", to)
	}
}
