package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/client/banking"
	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
	"github.com/vibast-solutions/ms-go-lubycash/app/events"
	"github.com/vibast-solutions/ms-go-lubycash/app/repository"
	"github.com/vibast-solutions/ms-go-lubycash/app/types"
	"github.com/vibast-solutions/ms-go-lubycash/config"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const mysqlDuplicateEntry = 1062

type UserService interface {
	Create(ctx context.Context, req *types.CreateUserRequest) (*dto.UserResponse, error)
	MyAccount(ctx context.Context, userID uint64) (*dto.UserResponse, error)
	List(ctx context.Context) ([]*dto.UserResponse, error)
	Show(ctx context.Context, secureID string) (*dto.UserResponse, error)
	UpdateSelf(ctx context.Context, userID uint64, req *types.UpdateUserRequest) (*dto.UserResponse, error)
	AdminUpdate(ctx context.Context, secureID string, req *types.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteSelf(ctx context.Context, userID uint64) error
	AdminDelete(ctx context.Context, secureID string) error
	BecomeCustomer(ctx context.Context, userID uint64, req *types.BecomeCustomerRequest) (*dto.BecomeCustomerResponse, error)
	RolesOf(ctx context.Context, userID uint64) (entity.RoleSet, error)
}

type UserServiceOption func(*userService)

func WithUserClock(clock Clock) UserServiceOption {
	return func(s *userService) {
		if clock != nil {
			s.now = clock
		}
	}
}

type userService struct {
	db          *sql.DB
	userRepo    userRepository
	addressRepo addressRepository
	banking     BankingClient
	publisher   EventPublisher
	cfg         *config.Config
	now         Clock
}

func NewUserService(
	db *sql.DB,
	userRepo userRepository,
	addressRepo addressRepository,
	bankingClient BankingClient,
	publisher EventPublisher,
	cfg *config.Config,
	opts ...UserServiceOption,
) UserService {
	svc := &userService{
		db:          db,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		banking:     bankingClient,
		publisher:   publisher,
		cfg:         cfg,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *userService) Create(ctx context.Context, req *types.CreateUserRequest) (*dto.UserResponse, error) {
	email := NormalizeEmail(req.Email)
	if err := s.ensureUnique(ctx, 0, email, req.CPF); err != nil {
		return nil, err
	}

	if err := s.cfg.Password.Policy.Validate(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &entity.User{
		SecureID:     uuid.New().String(),
		Name:         req.Name,
		CPF:          req.CPF,
		Phone:        req.Phone,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	address := &entity.Address{
		Street:     req.Address,
		City:       req.City,
		State:      strings.ToUpper(req.State),
		ZipCode:    FormatZipCode(req.ZipCode),
		Complement: nullString(req.Complement),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txUserRepo := repository.NewUserRepository(tx)
	if err = txUserRepo.Create(ctx, user); err != nil {
		return nil, translateWriteError(err)
	}

	if err = txUserRepo.AddRole(ctx, user.ID, entity.RoleUser); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	address.UserID = user.ID
	if err = repository.NewAddressRepository(tx).Create(ctx, address); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, translateWriteError(err)
	}

	return s.loadByID(ctx, user.ID)
}

func (s *userService) MyAccount(ctx context.Context, userID uint64) (*dto.UserResponse, error) {
	return s.loadByID(ctx, userID)
}

func (s *userService) List(ctx context.Context) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponses(users), nil
}

func (s *userService) Show(ctx context.Context, secureID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindBySecureID(ctx, secureID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.withAddress(ctx, user)
}

func (s *userService) UpdateSelf(ctx context.Context, userID uint64, req *types.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.update(ctx, user, req)
}

func (s *userService) AdminUpdate(ctx context.Context, secureID string, req *types.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindBySecureID(ctx, secureID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.update(ctx, user, req)
}

func (s *userService) DeleteSelf(ctx context.Context, userID uint64) error {
	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *userService) AdminDelete(ctx context.Context, secureID string) error {
	user, err := s.userRepo.FindBySecureID(ctx, secureID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.DeleteSelf(ctx, user.ID)
}

func (s *userService) BecomeCustomer(ctx context.Context, userID uint64, req *types.BecomeCustomerRequest) (*dto.BecomeCustomerResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.HasRole(entity.RoleCustomer) {
		return nil, ErrAlreadyHasRole
	}

	if user.Address, err = s.addressRepo.FindByUserID(ctx, user.ID); err != nil {
		return nil, err
	}

	payload := banking.CustomerPayload{
		Name:          user.Name,
		CPF:           user.CPF,
		Phone:         user.Phone,
		Email:         user.Email,
		AverageSalary: *req.AverageSalary,
	}
	if user.Address != nil {
		payload.Address = user.Address.Street
		payload.City = user.Address.City
		payload.State = user.Address.State
		payload.ZipCode = user.Address.ZipCode
	}

	resp, err := s.banking.CreateCustomer(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err.Error())
	}

	result, err := customerResult(resp)
	if err != nil {
		return nil, err
	}

	if result == events.ResultApproved {
		if err = s.userRepo.AddRole(ctx, user.ID, entity.RoleCustomer); err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
	}

	view, err := s.loadByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err = s.publisher.PublishValidationResult(ctx, view, result); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": user.ID,
			"result":  result,
		}).Error("Failed to publish customer validation result")
	}

	return &dto.BecomeCustomerResponse{Result: result, User: view}, nil
}

func (s *userService) RolesOf(ctx context.Context, userID uint64) (entity.RoleSet, error) {
	return s.userRepo.Roles(ctx, userID)
}

func (s *userService) update(ctx context.Context, user *entity.User, req *types.UpdateUserRequest) (*dto.UserResponse, error) {
	email := user.Email
	if req.Email != nil {
		email = NormalizeEmail(*req.Email)
	}
	cpf := user.CPF
	if req.CPF != nil {
		cpf = *req.CPF
	}
	if err := s.ensureUnique(ctx, user.ID, email, cpf); err != nil {
		return nil, err
	}

	if req.Password != nil {
		if err := s.cfg.Password.Policy.Validate(*req.Password); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	now := s.now()
	user.Email = email
	user.CPF = cpf
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	user.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err = repository.NewUserRepository(tx).Update(ctx, user); err != nil {
		return nil, translateWriteError(err)
	}

	if req.TouchesAddress() {
		txAddressRepo := repository.NewAddressRepository(tx)
		address, err := txAddressRepo.FindByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		if address == nil {
			address = &entity.Address{UserID: user.ID, CreatedAt: now}
			mergeAddress(address, req, now)
			if address.Street == "" || address.City == "" || address.State == "" || address.ZipCode == "" {
				return nil, fmt.Errorf("%w: address, city, state and zip_code are required for a new address", ErrValidation)
			}
			if err = txAddressRepo.Create(ctx, address); err != nil {
				return nil, err
			}
		} else {
			mergeAddress(address, req, now)
			if err = txAddressRepo.Update(ctx, address); err != nil {
				return nil, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, translateWriteError(err)
	}

	return s.loadByID(ctx, user.ID)
}

// ensureUnique rejects an email or cpf already held by a user other than selfID.
func (s *userService) ensureUnique(ctx context.Context, selfID uint64, email, cpf string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: email is already registered", ErrUserExists)
	}

	existing, err = s.userRepo.FindByCPF(ctx, cpf)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: cpf is already registered", ErrUserExists)
	}
	return nil
}

func (s *userService) loadByID(ctx context.Context, userID uint64) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.withAddress(ctx, user)
}

func (s *userService) withAddress(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	address, err := s.addressRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Address = address
	return dto.NewUserResponse(user), nil
}

type customerValidation struct {
	Status string `json:"status"`
}

// customerResult reads the approval verdict from a customer onboarding reply.
func customerResult(resp *banking.Response) (string, error) {
	if _, err := proxyResponse(resp, nil); err != nil {
		return "", err
	}

	var verdict customerValidation
	if err := json.Unmarshal(resp.Body, &verdict); err != nil {
		return "", fmt.Errorf("%w: unreadable customer validation reply", ErrUpstreamUnavailable)
	}

	if strings.EqualFold(verdict.Status, events.ResultApproved) {
		return events.ResultApproved, nil
	}
	return events.ResultDisapproved, nil
}

func mergeAddress(address *entity.Address, req *types.UpdateUserRequest, now time.Time) {
	if req.Address != nil {
		address.Street = *req.Address
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = strings.ToUpper(*req.State)
	}
	if req.ZipCode != nil {
		address.ZipCode = FormatZipCode(*req.ZipCode)
	}
	if req.Complement != nil {
		address.Complement = nullString(req.Complement)
	}
	address.UpdatedAt = now
}

func nullString(value *string) sql.NullString {
	if value == nil || *value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func translateWriteError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", ErrUserExists, mysqlErr.Message)
	}
	return err
}
