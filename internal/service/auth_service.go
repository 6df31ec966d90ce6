package service

import (
	"fmt"
	"regexp"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/internal/repository"
	"github.com/chodocu/chodocu-backend/pkg/bcrypt"
	"github.com/chodocu/chodocu-backend/pkg/jwt"
	"go.uber.org/zap"
)

var (
	phonePattern = regexp.MustCompile(`^0\d{9}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`\d`)
)

type AuthService struct {
	userRepo *repository.UserRepository
	email    Mailer
	log      *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, emailSvc Mailer, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, email: emailSvc, log: log}
}

// validatePassword enforces at least 7 characters with both letters and
// digits.
func validatePassword(password string) error {
	if len(password) < 7 || !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return fmt.Errorf("password must be at least 7 characters and contain letters and numbers: %w", ErrInvalidState)
	}
	return nil
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	if !phonePattern.MatchString(req.PhoneNumber) {
		return nil, fmt.Errorf("invalid phone number: %w", ErrInvalidState)
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.PhoneExists(req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("phone number already registered: %w", ErrInvalidState)
	}

	exists, err = s.userRepo.EmailExists(req.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already registered: %w", ErrInvalidState)
	}

	hashed, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    hashed,
		Role:        models.RoleUser,
		Status:      models.AccountActive,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Best effort; registration must not wait on the mail provider.
	go func(to, name string) {
		if err := s.email.SendWelcomeEmail(to, name); err != nil {
			s.log.Warn("welcome email failed", zap.String("to", to), zap.Error(err))
		}
	}(user.Email, user.Name)

	token, err := jwt.GenerateToken(user.ID, user.PhoneNumber, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByPhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrPermissionDenied)
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrPermissionDenied)
	}

	if user.Status != models.AccountActive {
		return nil, fmt.Errorf("account is %s: %w", user.Status, ErrPermissionDenied)
	}

	token, err := jwt.GenerateToken(user.ID, user.PhoneNumber, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}
