package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type RoleService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
}

func NewRoleService(db *gorm.DB, logger *zap.Logger) *RoleService {
	return &RoleService{db: db, scopes: scopeResolver{db: db}, logger: logger}
}

func (s *RoleService) List(ctx context.Context, actor models.User) ([]RoleDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	var roles []models.Role
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	dtos := make([]RoleDTO, 0, len(roles))
	for _, role := range roles {
		dtos = append(dtos, roleToDTO(role))
	}
	return dtos, nil
}

func (s *RoleService) Create(ctx context.Context, actor models.User, input CreateRoleInput) (RoleDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return RoleDTO{}, err
	}

	name, err := normalizeRequiredString(input.Name, "name")
	if err != nil {
		return RoleDTO{}, err
	}

	role := models.Role{
		Name:        strings.ToLower(name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.db.WithContext(ctx).Create(&role).Error; err != nil {
		return RoleDTO{}, mapDatabaseError(err)
	}

	s.logger.Info("role created", zap.Uint("role_id", role.ID), zap.String("name", role.Name))
	return roleToDTO(role), nil
}

func (s *RoleService) Update(ctx context.Context, actor models.User, roleID uint, input UpdateRoleInput) (RoleDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return RoleDTO{}, err
	}

	var role models.Role
	err := s.db.WithContext(ctx).First(&role, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RoleDTO{}, apperror.New(apperror.CodeNotFound, "role not found")
	}
	if err != nil {
		return RoleDTO{}, fmt.Errorf("load role: %w", err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name, err := normalizeRequiredString(*input.Name, "name")
		if err != nil {
			return RoleDTO{}, err
		}
		updates["name"] = strings.ToLower(name)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&role).Updates(updates).Error; err != nil {
			return RoleDTO{}, mapDatabaseError(err)
		}
		if err := s.db.WithContext(ctx).First(&role, roleID).Error; err != nil {
			return RoleDTO{}, fmt.Errorf("reload role: %w", err)
		}
	}
	return roleToDTO(role), nil
}

func (s *RoleService) Delete(ctx context.Context, actor models.User, roleID uint) error {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.Role{}, roleID)
	if result.Error != nil {
		return mapDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.CodeNotFound, "role not found")
	}
	return nil
}

// AssignToEmployee replaces the employee's role grants with the given set.
// Granting or revoking the "manager" role changes the employee's resolved
// tier on their next request; nothing is cached.
func (s *RoleService) AssignToEmployee(ctx context.Context, actor models.User, employeeID uint, roleIDs []uint) (EmployeeDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return EmployeeDTO{}, err
	}

	var employee models.Employee
	err := s.db.WithContext(ctx).First(&employee, employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
	}
	if err != nil {
		return EmployeeDTO{}, fmt.Errorf("load employee: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles, err := loadRoles(tx, roleIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(&employee).Association("Roles").Replace(roles); err != nil {
			return mapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return EmployeeDTO{}, err
	}

	if err := s.db.WithContext(ctx).Preload("Department").Preload("Roles").First(&employee, employeeID).Error; err != nil {
		return EmployeeDTO{}, fmt.Errorf("reload employee: %w", err)
	}
	return employeeToDTO(employee), nil
}
