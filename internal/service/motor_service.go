package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"motor_rental/internal/logger"
	"motor_rental/internal/model"
	"motor_rental/internal/repository"
	"motor_rental/internal/validator"
)

// ImageStore is the part of the upload pipeline the motor service needs
type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Delete(name string) bool
}

// MotorService defines owner-scoped operations for motors
type MotorService interface {
	List(ctx context.Context, ownerID int) ([]model.Motor, error)
	Get(ctx context.Context, id, ownerID int) (*model.Motor, error)
	Create(ctx context.Context, ownerID int, in model.MotorInput, file *multipart.FileHeader) (*model.Motor, error)
	Update(ctx context.Context, id, ownerID int, in model.MotorInput, file *multipart.FileHeader, removeImage bool) (*model.Motor, error)
	Delete(ctx context.Context, id, ownerID int) (*model.Motor, error)
}

type motorService struct {
	repo   repository.MotorRepository
	images ImageStore
}

// NewMotorService creates a new MotorService
func NewMotorService(repo repository.MotorRepository, images ImageStore) MotorService {
	return &motorService{repo: repo, images: images}
}

func (s *motorService) List(ctx context.Context, ownerID int) ([]model.Motor, error) {
	motors, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner motors from repo: %w", err)
	}
	return motors, nil
}

func (s *motorService) Get(ctx context.Context, id, ownerID int) (*model.Motor, error) {
	motor, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find motor by ID: %w", err)
	}
	if motor == nil {
		return nil, ErrMotorNotFound
	}
	return motor, nil
}

func (s *motorService) Create(ctx context.Context, ownerID int, in model.MotorInput, file *multipart.FileHeader) (*model.Motor, error) {
	in, err := checkMotorInput(in)
	if err != nil {
		return nil, err
	}

	motor := &model.Motor{
		Name:        in.Name,
		Plate:       in.Plate,
		Status:      in.Status,
		Description: in.Description,
		OwnerID:     ownerID,
	}

	if file != nil {
		name, err := s.images.Save(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImageRejected, err)
		}
		motor.Image = &name
	}

	if err := s.repo.Create(ctx, motor); err != nil {
		s.discard(ctx, motor.ImageName())
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicatePlate
		}
		return nil, fmt.Errorf("failed to create motor in repo: %w", err)
	}
	return motor, nil
}

// Update edits a motor. A new image is stored before the row changes and
// the replaced image is removed only after the row was written.
func (s *motorService) Update(ctx context.Context, id, ownerID int, in model.MotorInput, file *multipart.FileHeader, removeImage bool) (*model.Motor, error) {
	in, err := checkMotorInput(in)
	if err != nil {
		return nil, err
	}

	motor, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	oldImage := motor.ImageName()

	motor.Name = in.Name
	motor.Plate = in.Plate
	motor.Status = in.Status
	motor.Description = in.Description

	var newImage string
	switch {
	case removeImage:
		motor.Image = nil
	case file != nil:
		newImage, err = s.images.Save(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImageRejected, err)
		}
		motor.Image = &newImage
	}

	ok, err := s.repo.Update(ctx, motor)
	if err != nil || !ok {
		s.discard(ctx, newImage)
		switch {
		case err == nil:
			return nil, ErrMotorNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrDuplicatePlate
		}
		return nil, fmt.Errorf("failed to update motor in repo: %w", err)
	}

	if oldImage != "" && oldImage != motor.ImageName() {
		s.discard(ctx, oldImage)
	}
	return motor, nil
}

// Delete removes the motor's image and then its row. The two steps are not
// atomic: if the row delete fails the image is already gone.
func (s *motorService) Delete(ctx context.Context, id, ownerID int) (*model.Motor, error) {
	motor, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	s.discard(ctx, motor.ImageName())

	ok, err := s.repo.Delete(ctx, motor.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete motor in repo: %w", err)
	}
	if !ok {
		return nil, ErrMotorNotFound
	}
	return motor, nil
}

func (s *motorService) discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if !s.images.Delete(name) {
		logger.FromContext(ctx).Warn().Str("image", name).Msg("failed to delete stored image")
	}
}

func checkMotorInput(in model.MotorInput) (model.MotorInput, error) {
	in = in.Normalize()
	if err := validator.Struct(in); err != nil {
		return in, fmt.Errorf("%w: %w", ErrInvalidMotor, err)
	}
	return in, nil
}
