package controller_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/client/banking"
	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/repository"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"
	"github.com/vibast-solutions/ms-go-lubycash/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	findUserByEmailQuery    = `(?s)SELECT id, secure_id, name, cpf, phone, email, password, created_at, updated_at FROM users WHERE email = \?`
	findUserByIDQuery       = `(?s)SELECT id, secure_id, name, cpf, phone, email, password, created_at, updated_at FROM users WHERE id = \?`
	findUserBySecureIDQuery = `(?s)SELECT id, secure_id, name, cpf, phone, email, password, created_at, updated_at FROM users WHERE secure_id = \?`
	listUserRolesQuery      = `(?s)SELECT r.type FROM roles r\s+INNER JOIN users_roles ur ON ur.role_id = r.id\s+WHERE ur.user_id = \? ORDER BY r.type`
	findAddressQuery        = `(?s)SELECT id, user_id, address, city, state, zip_code, complement, created_at, updated_at\s+FROM addresses WHERE user_id = \?`
	addRoleQuery            = `(?s)INSERT INTO users_roles \(user_id, role_id\) SELECT \?, id FROM roles WHERE type = \?`
	removeRoleQuery         = `(?s)DELETE ur FROM users_roles ur`
	deleteUserQuery         = `(?s)DELETE FROM users WHERE id = \?`
	findTokenForUpdateQuery = `(?s)SELECT id, token, email, used, created_at FROM reset_pass_tokens WHERE token = \? FOR UPDATE`
)

const (
	testSecureID = "0b7d5f0e-6c1b-4d1e-9d5f-2a1f3f3f0c11"
	testToken    = "6f1c1c52-7d0e-4f7b-9a53-3f3b1b0a9e21"
	testEmail    = "alice@example.com"
	testCPF      = "123.456.789-00"
)

var (
	userColumns    = []string{"id", "secure_id", "name", "cpf", "phone", "email", "password", "created_at", "updated_at"}
	addressColumns = []string{"id", "user_id", "address", "city", "state", "zip_code", "complement", "created_at", "updated_at"}
	fixedNow       = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret"},
		Session: config.SessionConfig{TTL: 30 * time.Minute},
		Tokens:  config.TokenConfig{ResetTTL: 30 * time.Minute},
		Password: config.PasswordConfig{
			Policy: config.PasswordPolicy{MinLength: 6, MaxLength: 50},
		},
	}
}

type services struct {
	auth       service.AuthService
	user       service.UserService
	permission service.PermissionService
	customer   service.CustomerService
}

func newServices(db *sql.DB, client *fakeBanking, publisher *fakePublisher) services {
	cfg := newTestConfig()
	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	tokenRepo := repository.NewResetPassTokenRepository(db)

	return services{
		auth:       service.NewAuthService(db, userRepo, addressRepo, tokenRepo, publisher, cfg, service.WithAuthClock(fixedClock)),
		user:       service.NewUserService(db, userRepo, addressRepo, client, publisher, cfg, service.WithUserClock(fixedClock)),
		permission: service.NewPermissionService(userRepo, addressRepo),
		customer:   service.NewCustomerService(userRepo, client),
	}
}

func newJSONRequest(t *testing.T, method, path string, body any) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v (%s)", err, rec.Body.String())
	}
	return body
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	return string(hash)
}

func expectUser(mock sqlmock.Sqlmock, query string, arg interface{}, id uint64, passwordHash string, roles ...string) {
	mock.ExpectQuery(query).
		WithArgs(arg).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			id, testSecureID, "Alice Souza", testCPF, "+55(11)91234-5678", testEmail, passwordHash, fixedNow, fixedNow,
		))

	rows := sqlmock.NewRows([]string{"type"})
	for _, role := range roles {
		rows.AddRow(role)
	}
	mock.ExpectQuery(listUserRolesQuery).
		WithArgs(id).
		WillReturnRows(rows)
}

func expectNoUser(mock sqlmock.Sqlmock, query string, arg interface{}) {
	mock.ExpectQuery(query).
		WithArgs(arg).
		WillReturnRows(sqlmock.NewRows(userColumns))
}

func expectAddress(mock sqlmock.Sqlmock, userID uint64) {
	mock.ExpectQuery(findAddressQuery).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(addressColumns).AddRow(
			1, userID, "Rua A, 10", "Sao Paulo", "SP", "01.310-100", nil, fixedNow, fixedNow,
		))
}

type fakePublisher struct {
	tokens  []string
	results []string
	err     error
}

func (f *fakePublisher) PublishResetToken(ctx context.Context, user *dto.UserResponse, token string) error {
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakePublisher) PublishValidationResult(ctx context.Context, user *dto.UserResponse, result string) error {
	if f.err != nil {
		return f.err
	}
	f.results = append(f.results, result)
	return nil
}

type fakeBanking struct {
	calls      []string
	resp       *banking.Response
	err        error
	statements []banking.StatementParams
	transfers  []banking.TransferPayload
}

func (f *fakeBanking) reply() (*banking.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeBanking) ListCustomers(ctx context.Context, params banking.ListCustomersParams) (*banking.Response, error) {
	f.calls = append(f.calls, "list")
	return f.reply()
}

func (f *fakeBanking) BankStatement(ctx context.Context, params banking.StatementParams) (*banking.Response, error) {
	f.calls = append(f.calls, "statement")
	f.statements = append(f.statements, params)
	return f.reply()
}

func (f *fakeBanking) CreateTransfer(ctx context.Context, payload banking.TransferPayload) (*banking.Response, error) {
	f.calls = append(f.calls, "transfer")
	f.transfers = append(f.transfers, payload)
	return f.reply()
}

func (f *fakeBanking) CreateCustomer(ctx context.Context, payload banking.CustomerPayload) (*banking.Response, error) {
	f.calls = append(f.calls, "customer")
	return f.reply()
}
