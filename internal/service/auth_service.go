package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return LoginResult{}, apperror.New(apperror.CodeValidation, "email and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Employee.Department").
		Preload("Employee.Roles").
		Where("LOWER(email) = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResult{}, apperror.New(apperror.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return LoginResult{}, apperror.New(apperror.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	result := LoginResult{
		Token:               token,
		User:                userToDTO(user),
		NeedsPasswordChange: user.NeedsPasswordChange,
	}
	if user.Employee != nil {
		employee := employeeToDTO(*user.Employee)
		result.Employee = &employee
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return result, nil
}

func (s *AuthService) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"name": user.Name,
		"role": user.Role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// LoadUser reloads a token subject with the associations the access
// resolver reads. A stale or deleted account comes back unauthorized so the
// token stops working immediately.
func (s *AuthService) LoadUser(ctx context.Context, userID uint) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Employee.Department").
		Preload("Employee.Roles").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperror.New(apperror.CodeUnauthorized, "account no longer exists")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, actor models.User, input UpdatePasswordInput) error {
	if len(input.NewPassword) < 8 {
		return apperror.New(apperror.CodeValidation, "new password must be at least 8 characters")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return apperror.New(apperror.CodeValidation, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", actor.ID).
		Updates(map[string]interface{}{
			"password_hash":         string(hash),
			"needs_password_change": false,
		}).Error
	if err != nil {
		return mapDatabaseError(err)
	}

	s.logger.Info("password updated", zap.Uint("user_id", actor.ID))
	return nil
}
