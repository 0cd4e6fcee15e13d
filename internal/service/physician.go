package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/repository"
	"medsched/internal/storage"
	"medsched/pkg/validator"
)

type PhysicianServiceImpl struct {
	repo          repository.PhysicianRepository
	specialtyRepo repository.SpecialtyRepository
	locationRepo  repository.LocationRepository
	directory     Directory
	fileStorage   storage.FileStorage
	logger        *zap.Logger
}

func NewPhysicianService(
	repo repository.PhysicianRepository,
	specialtyRepo repository.SpecialtyRepository,
	locationRepo repository.LocationRepository,
	directory Directory,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *PhysicianServiceImpl {
	return &PhysicianServiceImpl{
		repo:          repo,
		specialtyRepo: specialtyRepo,
		locationRepo:  locationRepo,
		directory:     directory,
		fileStorage:   fileStorage,
		logger:        logger,
	}
}

func validatePhysician(firstName, lastName, email, phone *string) error {
	if firstName != nil && !validator.ValidateNamePart(*firstName) {
		return fmt.Errorf("%w: first name", domain.ErrInvalidInput)
	}
	if lastName != nil && !validator.ValidateNamePart(*lastName) {
		return fmt.Errorf("%w: last name", domain.ErrInvalidInput)
	}
	if email != nil && !validator.ValidateEmail(*email) {
		return fmt.Errorf("%w: email", domain.ErrInvalidInput)
	}
	if phone != nil && !validator.ValidatePhone(*phone) {
		return fmt.Errorf("%w: phone", domain.ErrInvalidInput)
	}
	return nil
}

func (s *PhysicianServiceImpl) checkSpecialty(ctx context.Context, id int64) error {
	specialty, err := s.specialtyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if specialty == nil {
		return domain.ErrSpecialtyNotFound
	}
	return nil
}

func (s *PhysicianServiceImpl) Create(ctx context.Context, dto domain.CreatePhysicianDTO) (int64, error) {
	if err := validatePhysician(&dto.FirstName, &dto.LastName, &dto.Email, &dto.Phone); err != nil {
		return 0, err
	}

	if err := s.checkSpecialty(ctx, dto.SpecialtyID); err != nil {
		return 0, err
	}

	dto.FirstName = validator.FormatName(dto.FirstName)
	dto.LastName = validator.FormatName(dto.LastName)
	dto.Phone = validator.FormatPhone(dto.Phone)
	dto.Bio = validator.SanitizeString(dto.Bio)

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("failed to create physician", zap.Error(err))
		return 0, err
	}

	s.logger.Info("physician created", zap.Int64("physician_id", id))
	return id, nil
}

func (s *PhysicianServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Physician, error) {
	physician, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get physician", zap.Int64("physician_id", id), zap.Error(err))
		return nil, err
	}
	if physician == nil {
		return nil, domain.ErrPhysicianNotFound
	}
	return physician, nil
}

func (s *PhysicianServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdatePhysicianDTO) error {
	if err := validatePhysician(dto.FirstName, dto.LastName, dto.Email, dto.Phone); err != nil {
		return err
	}

	if dto.SpecialtyID != nil {
		if err := s.checkSpecialty(ctx, *dto.SpecialtyID); err != nil {
			return err
		}
	}

	if dto.FirstName != nil {
		dto.FirstName = PointerTo(validator.FormatName(*dto.FirstName))
	}
	if dto.LastName != nil {
		dto.LastName = PointerTo(validator.FormatName(*dto.LastName))
	}
	if dto.Phone != nil {
		dto.Phone = PointerTo(validator.FormatPhone(*dto.Phone))
	}
	if dto.Bio != nil {
		dto.Bio = PointerTo(validator.SanitizeString(*dto.Bio))
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrPhysicianNotFound) {
			s.logger.Error("failed to update physician", zap.Int64("physician_id", id), zap.Error(err))
		}
		return err
	}

	s.directory.InvalidatePhysician(id)
	return nil
}

func (s *PhysicianServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrPhysicianNotFound) {
			s.logger.Error("failed to delete physician", zap.Int64("physician_id", id), zap.Error(err))
		}
		return err
	}

	s.directory.InvalidatePhysician(id)
	s.logger.Info("physician deleted", zap.Int64("physician_id", id))
	return nil
}

func (s *PhysicianServiceImpl) List(ctx context.Context, filter domain.PhysicianFilter) ([]domain.Physician, int, error) {
	if filter.SearchTerm != nil {
		filter.SearchTerm = PointerTo(validator.SanitizeString(*filter.SearchTerm))
	}

	physicians, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list physicians", zap.Error(err))
		return nil, 0, err
	}
	return physicians, total, nil
}

func (s *PhysicianServiceImpl) UploadProfilePhoto(ctx context.Context, physicianID int64, photo []byte, filename string) (string, error) {
	if s.fileStorage == nil {
		return "", domain.ErrFileStorageDisabled
	}

	physician, err := s.GetByID(ctx, physicianID)
	if err != nil {
		return "", err
	}

	url, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("failed to upload profile photo", zap.Int64("physician_id", physicianID), zap.Error(err))
		return "", err
	}

	if err := s.repo.UpdatePhotoURL(ctx, physicianID, url); err != nil {
		s.logger.Error("failed to save profile photo url", zap.Int64("physician_id", physicianID), zap.Error(err))
		if delErr := s.fileStorage.DeleteFile(ctx, url); delErr != nil {
			s.logger.Warn("failed to remove orphaned photo", zap.String("url", url), zap.Error(delErr))
		}
		return "", err
	}

	if physician.ProfilePhotoURL != "" && physician.ProfilePhotoURL != url {
		if err := s.fileStorage.DeleteFile(ctx, physician.ProfilePhotoURL); err != nil {
			s.logger.Warn("failed to remove previous photo", zap.String("url", physician.ProfilePhotoURL), zap.Error(err))
		}
	}

	s.directory.InvalidatePhysician(physicianID)
	return url, nil
}

func (s *PhysicianServiceImpl) DeleteProfilePhoto(ctx context.Context, physicianID int64) error {
	if s.fileStorage == nil {
		return domain.ErrFileStorageDisabled
	}

	physician, err := s.GetByID(ctx, physicianID)
	if err != nil {
		return err
	}
	if physician.ProfilePhotoURL == "" {
		return nil
	}

	if err := s.fileStorage.DeleteFile(ctx, physician.ProfilePhotoURL); err != nil {
		s.logger.Error("failed to delete profile photo", zap.Int64("physician_id", physicianID), zap.Error(err))
		return err
	}

	if err := s.repo.UpdatePhotoURL(ctx, physicianID, ""); err != nil {
		return err
	}

	s.directory.InvalidatePhysician(physicianID)
	return nil
}

func (s *PhysicianServiceImpl) checkPair(ctx context.Context, physicianID, locationID int64) error {
	if _, err := s.GetByID(ctx, physicianID); err != nil {
		return err
	}

	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (s *PhysicianServiceImpl) AssignLocation(ctx context.Context, physicianID, locationID int64) error {
	if err := s.checkPair(ctx, physicianID, locationID); err != nil {
		return err
	}

	if err := s.repo.AssignLocation(ctx, physicianID, locationID); err != nil {
		s.logger.Error("failed to assign location",
			zap.Int64("physician_id", physicianID), zap.Int64("location_id", locationID), zap.Error(err))
		return err
	}

	s.directory.InvalidatePhysician(physicianID)
	return nil
}

func (s *PhysicianServiceImpl) UnassignLocation(ctx context.Context, physicianID, locationID int64) error {
	if err := s.checkPair(ctx, physicianID, locationID); err != nil {
		return err
	}

	if err := s.repo.UnassignLocation(ctx, physicianID, locationID); err != nil {
		s.logger.Error("failed to unassign location",
			zap.Int64("physician_id", physicianID), zap.Int64("location_id", locationID), zap.Error(err))
		return err
	}

	s.directory.InvalidatePhysician(physicianID)
	return nil
}
