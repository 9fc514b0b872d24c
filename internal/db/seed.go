package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

// Seed ensures the base roles exist and bootstraps the first admin account
// on an empty database. The admin password comes from ADMIN_PASSWORD; when
// unset a random one is generated and logged once.
func Seed(database *gorm.DB, logger *zap.Logger) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, name := range []string{models.RoleNameManager, "employee"} {
			var count int64
			if err := tx.Model(&models.Role{}).Where("LOWER(name) = ?", name).Count(&count).Error; err != nil {
				return fmt.Errorf("check role %q: %w", name, err)
			}
			if count == 0 {
				if err := tx.Create(&models.Role{Name: name}).Error; err != nil {
					return fmt.Errorf("seed role %q: %w", name, err)
				}
			}
		}

		var users int64
		if err := tx.Model(&models.User{}).Count(&users).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if users > 0 {
			return nil
		}

		email := strings.TrimSpace(strings.ToLower(os.Getenv("ADMIN_EMAIL")))
		if email == "" {
			email = "admin@example.com"
		}

		password := os.Getenv("ADMIN_PASSWORD")
		generated := password == ""
		if generated {
			password = uuid.NewString()[:12]
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		admin := models.User{
			Name:                "Administrator",
			Email:               email,
			PasswordHash:        string(hash),
			Role:                "admin",
			NeedsPasswordChange: true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}

		if generated {
			logger.Info("admin account created",
				zap.String("email", email),
				zap.String("password", password))
		} else {
			logger.Info("admin account created", zap.String("email", email))
		}
		return nil
	})
}
