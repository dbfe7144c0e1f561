package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/repositories"
)

type RoleService interface {
	HasRole(ctx context.Context, userID int, role models.UserRole) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	Grant(ctx context.Context, userID int, role models.UserRole) error
	Revoke(ctx context.Context, userID int, role models.UserRole) error
}

type roleService struct {
	roleRepo repositories.RoleRepository
	userRepo repositories.UserRepository
}

func NewRoleService(roleRepo repositories.RoleRepository, userRepo repositories.UserRepository) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

func validRole(role models.UserRole) error {
	switch role {
	case models.RoleAdmin, models.RoleModerator, models.RoleUser:
		return nil
	}
	return fmt.Errorf("%w: unknown role %q", ErrValidationFailed, role)
}

func (s *roleService) HasRole(ctx context.Context, userID int, role models.UserRole) (bool, error) {
	if err := validRole(role); err != nil {
		return false, err
	}
	return s.roleRepo.HasRole(ctx, userID, role)
}

func (s *roleService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		roles, err := s.roleRepo.ListByUser(ctx, users[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load roles for user %d: %w", users[i].ID, err)
		}
		users[i].Roles = roles
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *roleService) Grant(ctx context.Context, userID int, role models.UserRole) error {
	if err := validRole(role); err != nil {
		return err
	}
	if err := s.roleRepo.Grant(ctx, userID, role); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRoleAlreadyGranted):
			return ErrRoleAlreadyGranted
		case errors.Is(err, repositories.ErrUserNotFound):
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *roleService) Revoke(ctx context.Context, userID int, role models.UserRole) error {
	if err := validRole(role); err != nil {
		return err
	}
	if err := s.roleRepo.Revoke(ctx, userID, role); err != nil {
		if errors.Is(err, repositories.ErrRoleNotGranted) {
			return ErrRoleNotGranted
		}
		return err
	}
	return nil
}
