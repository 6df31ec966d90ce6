package service

import (
	"fmt"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/chodocu/chodocu-backend/pkg/bcrypt"
	"github.com/chodocu/chodocu-backend/pkg/storage"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo *repository.UserRepository
	store    storage.ObjectStorage
	log      *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, store storage.ObjectStorage, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, store: store, log: log}
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *UserService) GetPublicProfile(userID uint) (*models.PublicUser, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	public := user.Public()
	return &public, nil
}

// UpdateProfile changes name, email, or password. A password change requires
// the current password.
func (s *UserService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.EmailExists(*req.Email, userID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("email already in use: %w", ErrInvalidState)
		}
		user.Email = *req.Email
	}

	if req.Password != nil {
		if req.CurrentPassword == nil {
			return nil, fmt.Errorf("current password is required: %w", ErrPermissionDenied)
		}
		if err := bcrypt.ComparePassword(user.Password, *req.CurrentPassword); err != nil {
			return nil, fmt.Errorf("current password is incorrect: %w", ErrPermissionDenied)
		}
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar swaps the avatar URL and removes the previous object from
// storage.
func (s *UserService) UpdateAvatar(userID uint, avatarURL string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	if avatarURL != "" && !hasStoragePrefix(s.store, avatarURL) {
		return nil, fmt.Errorf("avatar %q is not hosted on our storage: %w", avatarURL, ErrPermissionDenied)
	}

	if user.AvatarURL != "" && user.AvatarURL != avatarURL {
		if key := s.store.ObjectKeyFromURL(user.AvatarURL); key != "" {
			if err := s.store.Delete(key); err != nil {
				s.log.Warn("failed to delete old avatar", zap.Uint("user_id", userID), zap.Error(err))
			}
		}
	}

	user.AvatarURL = avatarURL
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func hasStoragePrefix(store storage.ObjectStorage, url string) bool {
	return store.ObjectKeyFromURL(url) != ""
}

func (s *UserService) ListUsers(page, limit int) ([]models.User, int64, error) {
	return s.userRepo.List(page, limit)
}

// UpdateUserStatusRole is the admin entry point for activating, deactivating,
// or promoting accounts.
func (s *UserService) UpdateUserStatusRole(userID uint, req models.UpdateUserStatusRoleRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.log.Info("user status/role updated",
		zap.Uint("user_id", userID),
		zap.String("status", string(user.Status)),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}
