package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrRateLimited          = errors.New("too many failed login attempts")
	ErrInvalidUsername      = errors.New("invalid username")
	ErrPasswordRequired     = errors.New("all password fields are required")
	ErrPasswordMismatch     = errors.New("new password and confirmation do not match")
	ErrInvalidPassword      = errors.New("new password length out of range")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrRoleNotAllowed       = errors.New("only admin accounts can be created")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrHasVehicles          = errors.New("admin still owns motors")

	ErrForbidden           = errors.New("forbidden")
	ErrSuperadminProtected = fmt.Errorf("%w: superadmin accounts cannot be deleted", ErrForbidden)
	ErrCannotDeleteSelf    = fmt.Errorf("%w: cannot delete own account", ErrForbidden)

	ErrMotorNotFound  = errors.New("motor not found or not owned by caller")
	ErrDuplicatePlate = errors.New("plate number already exists")
	ErrInvalidMotor   = errors.New("invalid motor data")
	ErrImageRejected  = errors.New("image upload rejected")
)
