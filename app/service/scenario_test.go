package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
	"github.com/vibast-solutions/ms-go-lubycash/app/repository"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"
	"github.com/vibast-solutions/ms-go-lubycash/app/types"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	aliceEmail = "a@x.com"
	aliceCPF   = "111.111.111-11"
)

func expectAlice(mock sqlmock.Sqlmock, query string, arg interface{}) {
	mock.ExpectQuery(query).
		WithArgs(arg).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			1, testSecureID, "Alice", aliceCPF, "", aliceEmail, "hash", fixedNow, fixedNow,
		))
	expectRoles(mock, 1, "user")
}

func TestAliceCreateResetAndReuse(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	publisher := &fakePublisher{}
	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	tokenRepo := repository.NewResetPassTokenRepository(db)
	users := service.NewUserService(db, userRepo, addressRepo, &fakeBanking{}, publisher, newTestConfig(), service.WithUserClock(fixedClock))
	auth := service.NewAuthService(db, userRepo, addressRepo, tokenRepo, publisher, newTestConfig(), service.WithAuthClock(fixedClock))

	createReq := &types.CreateUserRequest{
		Name:     "Alice",
		CPF:      aliceCPF,
		Email:    aliceEmail,
		Password: "secret",
		Address:  "Rua A, 10",
		City:     "Sao Paulo",
		State:    "SP",
		ZipCode:  "01310100",
	}
	if err := createReq.Validate(); err != nil {
		t.Fatalf("expected create payload to be valid, got %v", err)
	}

	expectNoUser(mock, findUserByEmailQuery, aliceEmail)
	expectNoUser(mock, findUserByCPFQuery, aliceCPF)
	mock.ExpectBegin()
	mock.ExpectExec(insertUserQuery).
		WithArgs(sqlmock.AnyArg(), "Alice", aliceCPF, "", aliceEmail, sqlmock.AnyArg(), fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(addRoleQuery).
		WithArgs(uint64(1), "user").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertAddressQuery).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectAlice(mock, findUserByIDQuery, uint64(1))
	expectAddress(mock, 1)

	created, err := users.Create(context.Background(), createReq)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.SecureID == "" || created.Roles != entity.NewRoleSet(entity.RoleUser) || created.Address == nil {
		t.Fatalf("unexpected user: %+v", created)
	}

	resetReq := &types.NewPasswordRequest{Email: aliceEmail}
	if err := resetReq.Validate(); err != nil {
		t.Fatalf("expected reset payload to be valid, got %v", err)
	}

	expectAlice(mock, findUserByEmailQuery, aliceEmail)
	mock.ExpectBegin()
	mock.ExpectExec(insertResetTokenQuery).
		WithArgs(sqlmock.AnyArg(), aliceEmail, false, fixedNow).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(findLatestTokenQuery).
		WithArgs(aliceEmail).
		WillReturnRows(sqlmock.NewRows(resetTokenColumns).AddRow(5, testToken, aliceEmail, false, fixedNow))

	if err := auth.RequestPasswordReset(context.Background(), resetReq); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if len(publisher.tokens) != 1 || publisher.tokens[0].token != testToken {
		t.Fatalf("unexpected published tokens: %+v", publisher.tokens)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(findTokenForUpdateQuery).
		WithArgs(testToken).
		WillReturnRows(sqlmock.NewRows(resetTokenColumns).AddRow(5, testToken, aliceEmail, false, fixedNow.Add(-10*time.Minute)))
	expectAlice(mock, findUserByEmailQuery, aliceEmail)
	mock.ExpectExec(updatePasswordQuery).
		WithArgs(sqlmock.AnyArg(), fixedNow, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(markTokenUsedQuery).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(findTokenForUpdateQuery).
		WithArgs(testToken).
		WillReturnRows(sqlmock.NewRows(resetTokenColumns).AddRow(5, testToken, aliceEmail, true, fixedNow.Add(-10*time.Minute)))
	mock.ExpectRollback()

	req := &types.ResetPasswordRequest{Token: testToken, NewPassword: "secret2"}
	if err := auth.ResetPassword(context.Background(), req); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if err := auth.ResetPassword(context.Background(), req); !errors.Is(err, service.ErrTokenAlreadyUsed) {
		t.Fatalf("expected ErrTokenAlreadyUsed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
