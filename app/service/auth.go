package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
	"github.com/vibast-solutions/ms-go-lubycash/app/metrics"
	"github.com/vibast-solutions/ms-go-lubycash/app/repository"
	"github.com/vibast-solutions/ms-go-lubycash/app/types"
	"github.com/vibast-solutions/ms-go-lubycash/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Claims struct {
	UserID   uint64   `json:"user_id"`
	SecureID string   `json:"secure_id"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type userRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	FindBySecureID(ctx context.Context, secureID string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByCPF(ctx context.Context, cpf string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Delete(ctx context.Context, userID uint64) (int64, error)
	AddRole(ctx context.Context, userID uint64, role entity.RoleType) error
	RemoveRole(ctx context.Context, userID uint64, role entity.RoleType) (int64, error)
	Roles(ctx context.Context, userID uint64) (entity.RoleSet, error)
}

type addressRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*entity.Address, error)
}

type resetTokenRepository interface {
	FindLatestByEmail(ctx context.Context, email string) (*entity.ResetPassToken, error)
}

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	PublishResetToken(ctx context.Context, user *dto.UserResponse, token string) error
	PublishValidationResult(ctx context.Context, user *dto.UserResponse, result string) error
}

type AuthService interface {
	Login(ctx context.Context, req *types.LoginRequest) (*dto.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, req *types.NewPasswordRequest) error
	ResetPassword(ctx context.Context, req *types.ResetPasswordRequest) error
	ValidateSessionToken(tokenString string) (*Claims, error)
}

type Clock func() time.Time

type AuthServiceOption func(*authService)

func WithAuthClock(clock Clock) AuthServiceOption {
	return func(s *authService) {
		if clock != nil {
			s.now = clock
		}
	}
}

type authService struct {
	db          *sql.DB
	userRepo    userRepository
	addressRepo addressRepository
	tokenRepo   resetTokenRepository
	publisher   EventPublisher
	cfg         *config.Config
	now         Clock
}

func NewAuthService(
	db *sql.DB,
	userRepo userRepository,
	addressRepo addressRepository,
	tokenRepo resetTokenRepository,
	publisher EventPublisher,
	cfg *config.Config,
	opts ...AuthServiceOption,
) AuthService {
	svc := &authService{
		db:          db,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		tokenRepo:   tokenRepo,
		publisher:   publisher,
		cfg:         cfg,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *authService) Login(ctx context.Context, req *types.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Address, err = s.addressRepo.FindByUserID(ctx, user.ID); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.generateSessionToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: dto.SessionToken{
			Type:      "bearer",
			Token:     token,
			ExpiresAt: expiresAt,
		},
		User: dto.NewUserResponse(user),
	}, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, req *types.NewPasswordRequest) error {
	email := NormalizeEmail(req.Email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	token := &entity.ResetPassToken{
		Token:     uuid.New().String(),
		Email:     user.Email,
		Used:      false,
		CreatedAt: s.now(),
	}
	if err = repository.NewResetPassTokenRepository(tx).Create(ctx, token); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	metrics.ResetTokensIssued.Inc()

	latest, err := s.tokenRepo.FindLatestByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if latest == nil {
		return fmt.Errorf("%w: token vanished after commit", ErrTokenDispatch)
	}

	if err = s.publisher.PublishResetToken(ctx, dto.NewUserResponse(user), latest.Token); err != nil {
		return fmt.Errorf("%w: %s", ErrTokenDispatch, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"token_id": latest.ID,
	}).Debug("Reset token dispatched")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *types.ResetPasswordRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txTokenRepo := repository.NewResetPassTokenRepository(tx)
	token, err := txTokenRepo.FindByTokenForUpdate(ctx, req.Token)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrTokenNotFound
	}

	if token.Expired(s.now(), s.cfg.Tokens.ResetTTL) {
		return ErrTokenExpired
	}
	if token.Used {
		return ErrTokenAlreadyUsed
	}
	if err = s.cfg.Password.Policy.Validate(req.NewPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	txUserRepo := repository.NewUserRepository(tx)
	user, err := txUserRepo.FindByEmail(ctx, token.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err = txUserRepo.UpdatePassword(ctx, user.ID, string(hashedPassword), s.now()); err != nil {
		return err
	}
	if err = txTokenRepo.MarkUsed(ctx, token.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *authService) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// generateSessionToken signs a session token. No exp claim is set when the session TTL is zero.
func (s *authService) generateSessionToken(user *entity.User) (string, *time.Time, error) {
	now := s.now()
	claims := &Claims{
		UserID:   user.ID,
		SecureID: user.SecureID,
		Email:    user.Email,
		Roles:    user.Roles.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  user.SecureID,
		},
	}

	var expiresAt *time.Time
	if s.cfg.Session.Expires() {
		exp := now.Add(s.cfg.Session.TTL)
		expiresAt = &exp
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", nil, err
	}
	return signed, expiresAt, nil
}
