package service

import (
	"context"
	"fmt"
	"strings"

	"motor_rental/internal/model"
	"motor_rental/internal/ratelimit"
	"motor_rental/internal/repository"
	"motor_rental/internal/utils"
	"motor_rental/internal/validator"
)

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, clientIP, username, password string) (*model.User, error)
	ChangePassword(ctx context.Context, userID int, current, newPassword, confirm string) error
}

type authService struct {
	userRepo repository.UserRepository
	limiter  ratelimit.Limiter
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, limiter ratelimit.Limiter) AuthService {
	return &authService{
		userRepo: userRepo,
		limiter:  limiter,
	}
}

// Login authenticates a user. Every rejected attempt counts against
// clientIP; a limited client is refused before credentials are checked.
func (s *authService) Login(ctx context.Context, clientIP, username, password string) (*model.User, error) {
	if s.limiter.IsLimited(clientIP) {
		return nil, ErrRateLimited
	}

	username = strings.TrimSpace(username)
	if !validator.Username(username) || !validator.SuppliedPassword(password) {
		s.limiter.RecordAttempt(clientIP)
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.limiter.RecordAttempt(clientIP)
		return nil, ErrInvalidCredentials
	}

	s.limiter.Reset(clientIP)
	return user, nil
}

// ChangePassword lets a signed-in user replace their own password
func (s *authService) ChangePassword(ctx context.Context, userID int, current, newPassword, confirm string) error {
	if current == "" {
		return ErrPasswordRequired
	}
	if err := checkNewPassword(newPassword, confirm); err != nil {
		return err
	}
	if !validator.SuppliedPassword(current) {
		return ErrWrongCurrentPassword
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !utils.CheckPasswordHash(current, user.PasswordHash) {
		return ErrWrongCurrentPassword
	}

	return updatePassword(ctx, s.userRepo, user.ID, newPassword)
}

// checkNewPassword applies the rules shared by every password form.
func checkNewPassword(newPassword, confirm string) error {
	if newPassword == "" || confirm == "" {
		return ErrPasswordRequired
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if !validator.NewPassword(newPassword) {
		return ErrInvalidPassword
	}
	return nil
}

func updatePassword(ctx context.Context, repo repository.UserRepository, userID int, newPassword string) error {
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	ok, err := repo.UpdatePassword(ctx, userID, hashed)
	if err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
