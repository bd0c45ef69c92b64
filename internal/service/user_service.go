package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"motor_rental/internal/logger"
	"motor_rental/internal/model"
	"motor_rental/internal/repository"
	"motor_rental/internal/utils"
	"motor_rental/internal/validator"
)

// UserService covers account management done by a superadmin
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	CreateAdmin(ctx context.Context, username, password, role string) (*model.User, error)
	GetAdmin(ctx context.Context, id int) (*model.User, error)
	ResetAdminPassword(ctx context.Context, id int, newPassword, confirm string) (*model.User, error)
	DeleteAdmin(ctx context.Context, callerID, targetID int) (*model.User, error)
	Dashboard(ctx context.Context, userID int, role model.Role) (*model.DashboardStats, error)
	EnsureSuperadmin(ctx context.Context, username, password string) (bool, error)
}

type userService struct {
	userRepo  repository.UserRepository
	motorRepo repository.MotorRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, motorRepo repository.MotorRepository) UserService {
	return &userService{userRepo: userRepo, motorRepo: motorRepo}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateAdmin adds an admin account. Any other requested role is refused.
func (s *userService) CreateAdmin(ctx context.Context, username, password, role string) (*model.User, error) {
	if r, ok := model.ParseRole(strings.TrimSpace(role)); !ok || r != model.RoleAdmin {
		return nil, ErrRoleNotAllowed
	}
	username = strings.TrimSpace(username)
	if !validator.Username(username) {
		return nil, ErrInvalidUsername
	}
	if !validator.NewPassword(password) {
		return nil, ErrInvalidPassword
	}
	return s.create(ctx, username, password, model.RoleAdmin)
}

func (s *userService) create(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hashed, Role: role}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

// GetAdmin returns the account only when it holds the admin role
func (s *userService) GetAdmin(ctx context.Context, id int) (*model.User, error) {
	admin, err := s.userRepo.FindAdminByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (s *userService) ResetAdminPassword(ctx context.Context, id int, newPassword, confirm string) (*model.User, error) {
	admin, err := s.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkNewPassword(newPassword, confirm); err != nil {
		return admin, err
	}
	if err := updatePassword(ctx, s.userRepo, admin.ID, newPassword); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAdminNotFound
		}
		return admin, err
	}
	return admin, nil
}

// DeleteAdmin removes targetID on behalf of callerID. Superadmins, the
// caller itself and admins that still own motors are never removed.
func (s *userService) DeleteAdmin(ctx context.Context, callerID, targetID int) (*model.User, error) {
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == callerID {
		return target, ErrCannotDeleteSelf
	}
	if target.IsSuperadmin() {
		return target, ErrSuperadminProtected
	}

	owned, err := s.motorRepo.CountByOwner(ctx, target.ID)
	if err != nil {
		return target, fmt.Errorf("failed to count motors: %w", err)
	}
	if owned > 0 {
		return target, ErrHasVehicles
	}

	ok, err := s.userRepo.Delete(ctx, target.ID)
	if err != nil {
		// a motor was added between the count and the delete
		if errors.Is(err, repository.ErrHasDependents) {
			return target, ErrHasVehicles
		}
		return target, fmt.Errorf("failed to delete user: %w", err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return target, nil
}

// Dashboard builds the summary for the given principal
func (s *userService) Dashboard(ctx context.Context, userID int, role model.Role) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}

	switch role {
	case model.RoleSuperadmin:
		counts, err := s.userRepo.CountByRole(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		stats.AdminCount = counts[model.RoleAdmin]
		stats.SuperadminCount = counts[model.RoleSuperadmin]
	case model.RoleAdmin:
		byStatus, err := s.motorRepo.CountByOwnerGroupedByStatus(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to count motors: %w", err)
		}
		stats.MotorsByStatus = byStatus
		for _, n := range byStatus {
			stats.MotorTotal += n
		}
	}
	return stats, nil
}

// EnsureSuperadmin creates the initial superadmin when none exists and a
// password was configured. It reports whether an account was created.
func (s *userService) EnsureSuperadmin(ctx context.Context, username, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if counts[model.RoleSuperadmin] > 0 {
		return false, nil
	}

	username = strings.TrimSpace(username)
	if !validator.Username(username) {
		return false, ErrInvalidUsername
	}
	if !validator.NewPassword(password) {
		return false, ErrInvalidPassword
	}

	user, err := s.create(ctx, username, password, model.RoleSuperadmin)
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info().Str("username", user.Username).Msg("superadmin account created")
	return true, nil
}
