package repository

import (
	"context"
	"errors"
	"fmt"

	"motor_rental/internal/model"

	"github.com/jackc/pgx/v5"
)

// Every statement below filters on admin_id so a motor is only reachable
// through its owner.
const (
	motorColumns = `id, nama_motor, plat_nomor, status, deskripsi, gambar, admin_id, created_at`

	insertMotor = `INSERT INTO motor (nama_motor, plat_nomor, status, deskripsi, gambar, admin_id)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	selectMotorByIDAndOwner = `SELECT ` + motorColumns + ` FROM motor WHERE id = $1 AND admin_id = $2`
	selectMotorsByOwner     = `SELECT ` + motorColumns + ` FROM motor WHERE admin_id = $1 ORDER BY id`
	updateMotor             = `UPDATE motor
            SET nama_motor = $1, plat_nomor = $2, status = $3, deskripsi = $4, gambar = $5
            WHERE id = $6 AND admin_id = $7`
	deleteMotor                 = `DELETE FROM motor WHERE id = $1 AND admin_id = $2`
	countMotorsByOwner          = `SELECT COUNT(*) FROM motor WHERE admin_id = $1`
	countMotorsByOwnerAndStatus = `SELECT status, COUNT(*) FROM motor WHERE admin_id = $1 GROUP BY status`
)

// MotorRepository defines owner-scoped operations for motor data
type MotorRepository interface {
	Create(ctx context.Context, motor *model.Motor) error
	FindByIDAndOwner(ctx context.Context, id, ownerID int) (*model.Motor, error)
	ListByOwner(ctx context.Context, ownerID int) ([]model.Motor, error)
	Update(ctx context.Context, motor *model.Motor) (bool, error)
	Delete(ctx context.Context, id, ownerID int) (bool, error)
	CountByOwner(ctx context.Context, ownerID int) (int, error)
	CountByOwnerGroupedByStatus(ctx context.Context, ownerID int) (map[model.MotorStatus]int, error)
}

type motorRepository struct {
	db Querier
}

// NewMotorRepository creates a new MotorRepository
func NewMotorRepository(db Querier) MotorRepository {
	return &motorRepository{db: db}
}

func (r *motorRepository) q(ctx context.Context) Querier {
	return querierFrom(ctx, r.db)
}

// Create inserts a motor. A taken plate yields ErrDuplicateKey.
func (r *motorRepository) Create(ctx context.Context, m *model.Motor) error {
	err := r.q(ctx).QueryRow(ctx, insertMotor, m.Name, m.Plate, string(m.Status), m.Description, m.Image, m.OwnerID).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create motor: %w", classify(err))
	}
	return nil
}

// FindByIDAndOwner retrieves a motor, nil when absent or owned by someone else
func (r *motorRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int) (*model.Motor, error) {
	m, err := scanMotor(r.q(ctx).QueryRow(ctx, selectMotorByIDAndOwner, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find motor by ID: %w", classify(err))
	}
	return m, nil
}

// ListByOwner returns the owner's motors ordered by ID
func (r *motorRepository) ListByOwner(ctx context.Context, ownerID int) ([]model.Motor, error) {
	rows, err := r.q(ctx).Query(ctx, selectMotorsByOwner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query motors by owner: %w", classify(err))
	}
	defer rows.Close()

	var motors []model.Motor
	for rows.Next() {
		m, err := scanMotor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan motor row: %w", err)
		}
		motors = append(motors, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating motor rows: %w", classify(err))
	}
	return motors, nil
}

// Update rewrites the editable fields; false when the id/owner pair matched nothing
func (r *motorRepository) Update(ctx context.Context, m *model.Motor) (bool, error) {
	cmdTag, err := r.q(ctx).Exec(ctx, updateMotor, m.Name, m.Plate, string(m.Status), m.Description, m.Image, m.ID, m.OwnerID)
	if err != nil {
		return false, fmt.Errorf("failed to update motor: %w", classify(err))
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Delete removes a motor; false when the id/owner pair matched nothing
func (r *motorRepository) Delete(ctx context.Context, id, ownerID int) (bool, error) {
	cmdTag, err := r.q(ctx).Exec(ctx, deleteMotor, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete motor: %w", classify(err))
	}
	return cmdTag.RowsAffected() > 0, nil
}

// CountByOwner returns how many motors reference the owner
func (r *motorRepository) CountByOwner(ctx context.Context, ownerID int) (int, error) {
	var count int
	if err := r.q(ctx).QueryRow(ctx, countMotorsByOwner, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count motors: %w", classify(err))
	}
	return count, nil
}

// CountByOwnerGroupedByStatus returns the owner's motor count per status
func (r *motorRepository) CountByOwnerGroupedByStatus(ctx context.Context, ownerID int) (map[model.MotorStatus]int, error) {
	rows, err := r.q(ctx).Query(ctx, countMotorsByOwnerAndStatus, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count motors by status: %w", classify(err))
	}
	defer rows.Close()

	counts := make(map[model.MotorStatus]int, len(model.MotorStatuses))
	for _, st := range model.MotorStatuses {
		counts[st] = 0
	}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan motor count: %w", err)
		}
		counts[model.MotorStatus(status)] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating motor counts: %w", classify(err))
	}
	return counts, nil
}

func scanMotor(row pgx.Row) (*model.Motor, error) {
	var (
		m      model.Motor
		status string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Plate, &status, &m.Description, &m.Image, &m.OwnerID, &m.CreatedAt); err != nil {
		return nil, err
	}
	parsed, ok := model.ParseMotorStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown status %q for motor %d", status, m.ID)
	}
	m.Status = parsed
	return &m, nil
}
