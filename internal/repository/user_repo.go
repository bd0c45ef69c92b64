package repository

import (
	"context"
	"errors"
	"fmt"

	"motor_rental/internal/model"

	"github.com/jackc/pgx/v5"
)

const (
	userColumns = `id, username, password, role, created_at`

	insertUser           = `INSERT INTO users (username, password, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	selectUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	selectUserByID       = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	selectAdminByID      = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = 'admin'`
	selectUsers          = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	updateUserPassword   = `UPDATE users SET password = $1 WHERE id = $2`
	deleteUser           = `DELETE FROM users WHERE id = $1`
	countUsersByRole     = `SELECT role, COUNT(*) FROM users GROUP BY role`
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindAdminByID(ctx context.Context, id int) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	CountByRole(ctx context.Context) (map[model.Role]int, error)
}

type userRepository struct {
	db Querier
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) q(ctx context.Context) Querier {
	return querierFrom(ctx, r.db)
}

// Create inserts a new user. A taken username yields ErrDuplicateKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.q(ctx).QueryRow(ctx, insertUser, user.Username, user.PasswordHash, string(user.Role)).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", classify(err))
	}
	return nil
}

// FindByUsername retrieves a user by username, nil when absent
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := r.scanOne(ctx, selectUserByUsername, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by ID, nil when absent
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user, err := r.scanOne(ctx, selectUserByID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindAdminByID retrieves a user by ID only when its role is admin
func (r *userRepository) FindAdminByID(ctx context.Context, id int) (*model.User, error) {
	user, err := r.scanOne(ctx, selectAdminByID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin by ID: %w", err)
	}
	return user, nil
}

// List returns every account ordered by ID
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.q(ctx).Query(ctx, selectUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", classify(err))
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", classify(err))
	}
	return users, nil
}

// UpdatePassword replaces the stored hash; false when no row matched
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) (bool, error) {
	cmdTag, err := r.q(ctx).Exec(ctx, updateUserPassword, passwordHash, id)
	if err != nil {
		return false, fmt.Errorf("failed to update password: %w", classify(err))
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Delete removes a user; a user still owning motors yields ErrHasDependents
func (r *userRepository) Delete(ctx context.Context, id int) (bool, error) {
	cmdTag, err := r.q(ctx).Exec(ctx, deleteUser, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", classify(err))
	}
	return cmdTag.RowsAffected() > 0, nil
}

// CountByRole returns the number of accounts per role
func (r *userRepository) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	rows, err := r.q(ctx).Query(ctx, countUsersByRole)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", classify(err))
	}
	defer rows.Close()

	counts := make(map[model.Role]int)
	for rows.Next() {
		var (
			role  string
			count int
		)
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan user count: %w", err)
		}
		counts[model.Role(role)] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user counts: %w", classify(err))
	}
	return counts, nil
}

func (r *userRepository) scanOne(ctx context.Context, sql string, arg any) (*model.User, error) {
	user, err := scanUser(r.q(ctx).QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user model.User
		role string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
		return nil, err
	}
	parsed, ok := model.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q for user %d", role, user.ID)
	}
	user.Role = parsed
	return &user, nil
}
