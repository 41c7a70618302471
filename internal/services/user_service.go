package services

import (
	"gorm.io/gorm"

	"invently_backend/internal/repositories"
	"invently_backend/internal/services/dto"
	"invently_backend/pkg/apperrors"
)

type UserService interface {
	GetUser(db *gorm.DB, userID string) (*dto.UserDTO, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserDTO(user)
	return &resp, nil
}

// UpdateProfile applies the provided fields on top of current values.
// Empty fields keep what is stored; email and password are out of
// reach here.
func (s *UserServiceImpl) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Photo != "" {
		user.Photo = req.Photo
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if err := s.userRepo.UpdateProfile(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserDTO(user)
	return &resp, nil
}
