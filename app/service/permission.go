package service

import (
	"context"
	"errors"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
	"github.com/vibast-solutions/ms-go-lubycash/app/metrics"
	"github.com/vibast-solutions/ms-go-lubycash/app/repository"
)

// PermissionService toggles role membership. Other roles held by the user are never touched.
type PermissionService interface {
	Grant(ctx context.Context, secureID string, role entity.RoleType) (*dto.UserResponse, error)
	Revoke(ctx context.Context, secureID string, role entity.RoleType) (*dto.UserResponse, error)
}

type permissionService struct {
	userRepo    userRepository
	addressRepo addressRepository
}

func NewPermissionService(userRepo userRepository, addressRepo addressRepository) PermissionService {
	return &permissionService{userRepo: userRepo, addressRepo: addressRepo}
}

func (s *permissionService) Grant(ctx context.Context, secureID string, role entity.RoleType) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindBySecureID(ctx, secureID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.HasRole(role) {
		return nil, ErrAlreadyHasRole
	}

	if err = s.userRepo.AddRole(ctx, user.ID, role); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	metrics.RoleChanges.WithLabelValues(string(role), "grant").Inc()

	return s.reload(ctx, secureID)
}

func (s *permissionService) Revoke(ctx context.Context, secureID string, role entity.RoleType) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindBySecureID(ctx, secureID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.HasRole(role) {
		return nil, ErrDoesNotHaveRole
	}

	removed, err := s.userRepo.RemoveRole(ctx, user.ID, role)
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		return nil, ErrDoesNotHaveRole
	}
	metrics.RoleChanges.WithLabelValues(string(role), "revoke").Inc()

	return s.reload(ctx, secureID)
}

func (s *permissionService) reload(ctx context.Context, secureID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindBySecureID(ctx, secureID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.Address, err = s.addressRepo.FindByUserID(ctx, user.ID); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}
