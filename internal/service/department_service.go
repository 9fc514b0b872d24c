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

type DepartmentService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
}

func NewDepartmentService(db *gorm.DB, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{db: db, scopes: scopeResolver{db: db}, logger: logger}
}

func (s *DepartmentService) List(ctx context.Context, actor models.User) ([]DepartmentDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	var departments []models.Department
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	dtos := make([]DepartmentDTO, 0, len(departments))
	for _, department := range departments {
		dtos = append(dtos, departmentToDTO(department))
	}
	return dtos, nil
}

func (s *DepartmentService) Get(ctx context.Context, actor models.User, departmentID uint) (DepartmentDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return DepartmentDTO{}, err
	}

	var department models.Department
	err := s.db.WithContext(ctx).First(&department, departmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DepartmentDTO{}, apperror.New(apperror.CodeNotFound, "department not found")
	}
	if err != nil {
		return DepartmentDTO{}, fmt.Errorf("load department: %w", err)
	}
	return departmentToDTO(department), nil
}

func (s *DepartmentService) Create(ctx context.Context, actor models.User, input CreateDepartmentInput) (DepartmentDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return DepartmentDTO{}, err
	}

	name, err := normalizeRequiredString(input.Name, "name")
	if err != nil {
		return DepartmentDTO{}, err
	}

	exists, err := s.nameExists(ctx, name, nil)
	if err != nil {
		return DepartmentDTO{}, err
	}
	if exists {
		return DepartmentDTO{}, apperror.New(apperror.CodeConflict, "department name must be unique")
	}

	department := models.Department{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.db.WithContext(ctx).Create(&department).Error; err != nil {
		return DepartmentDTO{}, mapDatabaseError(err)
	}

	s.logger.Info("department created", zap.Uint("department_id", department.ID))
	return departmentToDTO(department), nil
}

func (s *DepartmentService) Update(ctx context.Context, actor models.User, departmentID uint, input UpdateDepartmentInput) (DepartmentDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return DepartmentDTO{}, err
	}

	var department models.Department
	err := s.db.WithContext(ctx).First(&department, departmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DepartmentDTO{}, apperror.New(apperror.CodeNotFound, "department not found")
	}
	if err != nil {
		return DepartmentDTO{}, fmt.Errorf("load department: %w", err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name, err := normalizeRequiredString(*input.Name, "name")
		if err != nil {
			return DepartmentDTO{}, err
		}
		if name != department.Name {
			exists, err := s.nameExists(ctx, name, &departmentID)
			if err != nil {
				return DepartmentDTO{}, err
			}
			if exists {
				return DepartmentDTO{}, apperror.New(apperror.CodeConflict, "department name must be unique")
			}
			updates["name"] = name
		}
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&department).Updates(updates).Error; err != nil {
			return DepartmentDTO{}, mapDatabaseError(err)
		}
		if err := s.db.WithContext(ctx).First(&department, departmentID).Error; err != nil {
			return DepartmentDTO{}, fmt.Errorf("reload department: %w", err)
		}
	}
	return departmentToDTO(department), nil
}

// Delete removes the department; member employees keep their rows with a
// cleared department reference.
func (s *DepartmentService) Delete(ctx context.Context, actor models.User, departmentID uint) error {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Employee{}).
			Where("department_id = ?", departmentID).
			Update("department_id", nil).Error; err != nil {
			return mapDatabaseError(err)
		}

		result := tx.Delete(&models.Department{}, departmentID)
		if result.Error != nil {
			return mapDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.New(apperror.CodeNotFound, "department not found")
		}
		return nil
	})
}

func (s *DepartmentService) nameExists(ctx context.Context, name string, excludeID *uint) (bool, error) {
	query := s.db.WithContext(ctx).Model(&models.Department{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check department name uniqueness: %w", err)
	}
	return count > 0, nil
}
