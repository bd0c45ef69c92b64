// Package repotest provides an in-memory stand-in for the Postgres
// repositories with the same constraint behavior.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"motor_rental/internal/model"
	"motor_rental/internal/repository"
)

// Store holds users and motors in memory. Unique usernames, unique plates
// and the motor owner reference are enforced like the real schema.
type Store struct {
	mu          sync.Mutex
	users       map[int]model.User
	motors      map[int]model.Motor
	nextUserID  int
	nextMotorID int

	// Err, when set, is returned by every repository call.
	Err error
	// MotorDeleteErr, when set, is returned by Motors().Delete only.
	MotorDeleteErr error
}

// New returns an empty Store
func New() *Store {
	return &Store{
		users:       make(map[int]model.User),
		motors:      make(map[int]model.Motor),
		nextUserID:  1,
		nextMotorID: 1,
	}
}

// Users returns a UserRepository backed by s
func (s *Store) Users() repository.UserRepository {
	return userRepo{s}
}

// Motors returns a MotorRepository backed by s
func (s *Store) Motors() repository.MotorRepository {
	return motorRepo{s}
}

// SetErr sets or clears the injected failure.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// AddUser inserts u directly and returns its id.
func (s *Store) AddUser(u model.User) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextUserID
	s.nextUserID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = u
	return u.ID
}

// User returns a copy of the stored user.
func (s *Store) User(id int) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// Motor returns a copy of the stored motor regardless of owner.
func (s *Store) Motor(id int) (model.Motor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.motors[id]
	return m, ok
}

// MotorCount returns the number of stored motors.
func (s *Store) MotorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.motors)
}

func (s *Store) usernameTaken(username string, exceptID int) bool {
	for id, u := range s.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (s *Store) plateTaken(plate string, exceptID int) bool {
	for id, m := range s.motors {
		if id != exceptID && m.Plate == plate {
			return true
		}
	}
	return false
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w (%s)", repository.ErrDuplicateKey, constraint)
}

func cloneMotor(m model.Motor) model.Motor {
	if m.Image != nil {
		img := *m.Image
		m.Image = &img
	}
	return m
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.usernameTaken(user.Username, 0) {
		return duplicate("users_username_key")
	}
	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r userRepo) FindAdminByID(ctx context.Context, id int) (*model.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil || u == nil || u.Role != model.RoleAdmin {
		return nil, err
	}
	return u, nil
}

func (r userRepo) List(_ context.Context) ([]model.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r userRepo) UpdatePassword(_ context.Context, id int, passwordHash string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return true, nil
}

func (r userRepo) Delete(_ context.Context, id int) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	for _, m := range s.motors {
		if m.OwnerID == id {
			return false, fmt.Errorf("%w (motor_admin_id_fkey)", repository.ErrHasDependents)
		}
	}
	delete(s.users, id)
	return true, nil
}

func (r userRepo) CountByRole(_ context.Context) (map[model.Role]int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	counts := make(map[model.Role]int)
	for _, u := range s.users {
		counts[u.Role]++
	}
	return counts, nil
}

type motorRepo struct{ s *Store }

func (r motorRepo) Create(_ context.Context, m *model.Motor) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[m.OwnerID]; !ok {
		return fmt.Errorf("motor owner %d does not exist", m.OwnerID)
	}
	if s.plateTaken(m.Plate, 0) {
		return duplicate("motor_plat_nomor_key")
	}
	m.ID = s.nextMotorID
	s.nextMotorID++
	m.CreatedAt = time.Now()
	s.motors[m.ID] = cloneMotor(*m)
	return nil
}

func (r motorRepo) FindByIDAndOwner(_ context.Context, id, ownerID int) (*model.Motor, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	m, ok := s.motors[id]
	if !ok || m.OwnerID != ownerID {
		return nil, nil
	}
	m = cloneMotor(m)
	return &m, nil
}

func (r motorRepo) ListByOwner(_ context.Context, ownerID int) ([]model.Motor, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var motors []model.Motor
	for _, m := range s.motors {
		if m.OwnerID == ownerID {
			motors = append(motors, cloneMotor(m))
		}
	}
	sort.Slice(motors, func(i, j int) bool { return motors[i].ID < motors[j].ID })
	return motors, nil
}

func (r motorRepo) Update(_ context.Context, m *model.Motor) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	cur, ok := s.motors[m.ID]
	if !ok || cur.OwnerID != m.OwnerID {
		return false, nil
	}
	if s.plateTaken(m.Plate, m.ID) {
		return false, duplicate("motor_plat_nomor_key")
	}
	cur.Name = m.Name
	cur.Plate = m.Plate
	cur.Status = m.Status
	cur.Description = m.Description
	cur.Image = m.Image
	s.motors[m.ID] = cloneMotor(cur)
	return true, nil
}

func (r motorRepo) Delete(_ context.Context, id, ownerID int) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if s.MotorDeleteErr != nil {
		return false, s.MotorDeleteErr
	}
	m, ok := s.motors[id]
	if !ok || m.OwnerID != ownerID {
		return false, nil
	}
	delete(s.motors, id)
	return true, nil
}

func (r motorRepo) CountByOwner(_ context.Context, ownerID int) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	n := 0
	for _, m := range s.motors {
		if m.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r motorRepo) CountByOwnerGroupedByStatus(_ context.Context, ownerID int) (map[model.MotorStatus]int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	counts := make(map[model.MotorStatus]int, len(model.MotorStatuses))
	for _, st := range model.MotorStatuses {
		counts[st] = 0
	}
	for _, m := range s.motors {
		if m.OwnerID == ownerID {
			counts[m.Status]++
		}
	}
	return counts, nil
}
