package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type ManagerService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
}

func NewManagerService(db *gorm.DB, logger *zap.Logger) *ManagerService {
	return &ManagerService{db: db, scopes: scopeResolver{db: db}, logger: logger}
}

func (s *ManagerService) List(ctx context.Context, actor models.User) ([]ManagerDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}

	var assignments []models.ManagerAssignment
	err := s.db.WithContext(ctx).
		Preload("Employee").
		Preload("Department").
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("list managers: %w", err)
	}

	dtos := make([]ManagerDTO, 0, len(assignments))
	for _, assignment := range assignments {
		dtos = append(dtos, managerToDTO(assignment))
	}
	return dtos, nil
}

// Create promotes an employee to manager: the assignment row and the raw
// role on the linked account change in one transaction so the two signals
// cannot diverge.
func (s *ManagerService) Create(ctx context.Context, actor models.User, input CreateManagerInput) (ManagerDTO, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return ManagerDTO{}, err
	}

	var employee models.Employee
	err := s.db.WithContext(ctx).First(&employee, input.EmployeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ManagerDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
	}
	if err != nil {
		return ManagerDTO{}, fmt.Errorf("load employee: %w", err)
	}

	departmentID := input.DepartmentID
	if departmentID == nil {
		departmentID = employee.DepartmentID
	}

	var assignment models.ManagerAssignment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignment = models.ManagerAssignment{
			EmployeeID:   employee.ID,
			DepartmentID: departmentID,
			FullName:     employee.FirstName + " " + employee.LastName,
			Email:        employee.Email,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return mapDatabaseError(err)
		}

		if employee.UserID != nil {
			err := tx.Model(&models.User{}).
				Where("id = ?", *employee.UserID).
				Update("role", "manager").Error
			if err != nil {
				return mapDatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return ManagerDTO{}, err
	}

	if err := s.db.WithContext(ctx).Preload("Employee").Preload("Department").First(&assignment, assignment.ID).Error; err != nil {
		return ManagerDTO{}, fmt.Errorf("reload manager: %w", err)
	}

	s.logger.Info("manager assigned",
		zap.Uint("employee_id", employee.ID),
		zap.Uint("assigned_by", actor.ID))
	return managerToDTO(assignment), nil
}

// Delete demotes the manager and drops the linked account back to the
// employee role in the same transaction.
func (s *ManagerService) Delete(ctx context.Context, actor models.User, managerID uint) error {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return err
	}

	var assignment models.ManagerAssignment
	err := s.db.WithContext(ctx).Preload("Employee").First(&assignment, managerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(apperror.CodeNotFound, "manager not found")
	}
	if err != nil {
		return fmt.Errorf("load manager: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ManagerAssignment{}, managerID).Error; err != nil {
			return mapDatabaseError(err)
		}

		if assignment.Employee != nil && assignment.Employee.UserID != nil {
			err := tx.Model(&models.User{}).
				Where("id = ? AND LOWER(role) <> ?", *assignment.Employee.UserID, "admin").
				Update("role", "employee").Error
			if err != nil {
				return mapDatabaseError(err)
			}
		}
		return nil
	})
}

func managerToDTO(assignment models.ManagerAssignment) ManagerDTO {
	dto := ManagerDTO{
		ID:           assignment.ID,
		EmployeeID:   assignment.EmployeeID,
		DepartmentID: assignment.DepartmentID,
		FullName:     assignment.FullName,
		Email:        assignment.Email,
		CreatedAt:    assignment.CreatedAt,
	}
	if assignment.Employee != nil {
		employee := employeeToDTO(*assignment.Employee)
		dto.Employee = &employee
	}
	if assignment.Department != nil {
		department := departmentToDTO(*assignment.Department)
		dto.Department = &department
	}
	return dto
}
