package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/access"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type EmployeeService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
}

func NewEmployeeService(db *gorm.DB, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{db: db, scopes: scopeResolver{db: db}, logger: logger}
}

// List returns employees visible to the actor: everyone for admins, the
// manager's department (minus the manager's own row) for managers. A
// manager with no department gets the no_department error, never a silently
// empty list.
func (s *EmployeeService) List(ctx context.Context, actor models.User) ([]EmployeeDTO, error) {
	tier, _, predicate, err := s.scopes.scope(ctx, actor, access.KindEmployee)
	if err != nil {
		return nil, err
	}
	if tier < access.TierManager {
		return nil, apperror.New(apperror.CodeForbidden, "insufficient permissions")
	}

	query := s.db.WithContext(ctx).Preload("Department").Preload("Roles").Order("last_name ASC")
	if !predicate.All {
		query = query.Where("department_id = ?", *predicate.DepartmentID)
		if predicate.ExcludeEmployeeID != nil {
			query = query.Where("id <> ?", *predicate.ExcludeEmployeeID)
		}
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, employee := range employees {
		dtos = append(dtos, employeeToDTO(employee))
	}
	return dtos, nil
}

// Get loads one employee if the actor's predicate allows it; out-of-scope
// rows read as not found so their existence is not leaked.
func (s *EmployeeService) Get(ctx context.Context, actor models.User, employeeID uint) (EmployeeDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindEmployee)
	if err != nil {
		return EmployeeDTO{}, err
	}

	var employee models.Employee
	err = s.db.WithContext(ctx).Preload("Department").Preload("Roles").First(&employee, employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
	}
	if err != nil {
		return EmployeeDTO{}, fmt.Errorf("load employee: %w", err)
	}

	if !employeeViewable(predicate, employee) {
		return EmployeeDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
	}
	return employeeToDTO(employee), nil
}

// Create makes the login account and the employee profile in one
// transaction; a partial state (account without profile) never persists.
// The generated temporary password is returned to the caller.
func (s *EmployeeService) Create(ctx context.Context, actor models.User, input CreateEmployeeInput) (CreatedEmployee, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return CreatedEmployee{}, err
	}

	firstName, err := normalizeRequiredString(input.FirstName, "first_name")
	if err != nil {
		return CreatedEmployee{}, err
	}
	lastName, err := normalizeRequiredString(input.LastName, "last_name")
	if err != nil {
		return CreatedEmployee{}, err
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return CreatedEmployee{}, apperror.New(apperror.CodeValidation, "a valid email is required")
	}
	contractType, err := normalizeRequiredString(input.ContractType, "contract_type")
	if err != nil {
		return CreatedEmployee{}, err
	}
	if input.HireDate.IsZero() {
		return CreatedEmployee{}, apperror.New(apperror.CodeValidation, "hire_date is required")
	}
	if input.SalaryBase < 0 {
		return CreatedEmployee{}, apperror.New(apperror.CodeValidation, "salary_base must not be negative")
	}
	if input.DepartmentID != nil {
		if err := s.ensureDepartmentExists(ctx, *input.DepartmentID); err != nil {
			return CreatedEmployee{}, err
		}
	}

	temporaryPassword := uuid.NewString()[:10]
	hash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), bcrypt.DefaultCost)
	if err != nil {
		return CreatedEmployee{}, fmt.Errorf("hash temporary password: %w", err)
	}

	var employee models.Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:                firstName + " " + lastName,
			Email:               email,
			PasswordHash:        string(hash),
			Role:                "employee",
			NeedsPasswordChange: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return mapDatabaseError(err)
		}

		employee = models.Employee{
			UserID:       &user.ID,
			FirstName:    firstName,
			LastName:     lastName,
			Email:        email,
			Phone:        strings.TrimSpace(input.Phone),
			ContractType: contractType,
			HireDate:     input.HireDate,
			SalaryBase:   input.SalaryBase,
			DepartmentID: input.DepartmentID,
		}
		if err := tx.Create(&employee).Error; err != nil {
			return mapDatabaseError(err)
		}

		if len(input.RoleIDs) > 0 {
			roles, err := loadRoles(tx, input.RoleIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&employee).Association("Roles").Replace(roles); err != nil {
				return mapDatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return CreatedEmployee{}, err
	}

	if err := s.db.WithContext(ctx).Preload("Department").Preload("Roles").First(&employee, employee.ID).Error; err != nil {
		return CreatedEmployee{}, fmt.Errorf("reload employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.Uint("employee_id", employee.ID),
		zap.Uint("created_by", actor.ID))

	return CreatedEmployee{
		Employee:          employeeToDTO(employee),
		TemporaryPassword: temporaryPassword,
	}, nil
}

// Update edits the profile and keeps the linked account's name and email in
// sync inside the same transaction.
func (s *EmployeeService) Update(ctx context.Context, actor models.User, employeeID uint, input UpdateEmployeeInput) (EmployeeDTO, error) {
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

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		firstName, err := normalizeRequiredString(*input.FirstName, "first_name")
		if err != nil {
			return EmployeeDTO{}, err
		}
		updates["first_name"] = firstName
	}
	if input.LastName != nil {
		lastName, err := normalizeRequiredString(*input.LastName, "last_name")
		if err != nil {
			return EmployeeDTO{}, err
		}
		updates["last_name"] = lastName
	}
	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return EmployeeDTO{}, apperror.New(apperror.CodeValidation, "a valid email is required")
		}
		updates["email"] = email
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.ContractType != nil {
		contractType, err := normalizeRequiredString(*input.ContractType, "contract_type")
		if err != nil {
			return EmployeeDTO{}, err
		}
		updates["contract_type"] = contractType
	}
	if input.HireDate != nil {
		updates["hire_date"] = *input.HireDate
	}
	if input.SalaryBase != nil {
		if *input.SalaryBase < 0 {
			return EmployeeDTO{}, apperror.New(apperror.CodeValidation, "salary_base must not be negative")
		}
		updates["salary_base"] = *input.SalaryBase
	}
	if input.DepartmentIDSet {
		if input.DepartmentID != nil {
			if err := s.ensureDepartmentExists(ctx, *input.DepartmentID); err != nil {
				return EmployeeDTO{}, err
			}
		}
		updates["department_id"] = input.DepartmentID
	}
	if input.Status != nil {
		updates["status"] = strings.TrimSpace(*input.Status)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&employee).Updates(updates).Error; err != nil {
				return mapDatabaseError(err)
			}
		}

		if input.RoleIDsSet {
			roles, err := loadRoles(tx, input.RoleIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&employee).Association("Roles").Replace(roles); err != nil {
				return mapDatabaseError(err)
			}
		}

		if employee.UserID == nil {
			return nil
		}

		userUpdates := map[string]interface{}{}
		if email, ok := updates["email"]; ok {
			userUpdates["email"] = email
		}
		if input.FirstName != nil || input.LastName != nil {
			firstName := employee.FirstName
			if input.FirstName != nil {
				firstName = strings.TrimSpace(*input.FirstName)
			}
			lastName := employee.LastName
			if input.LastName != nil {
				lastName = strings.TrimSpace(*input.LastName)
			}
			userUpdates["name"] = firstName + " " + lastName
		}
		if len(userUpdates) == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", *employee.UserID).Updates(userUpdates).Error; err != nil {
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

// Delete removes the employee; owned tasks, presences and leave requests go
// with it through the cascade constraints.
func (s *EmployeeService) Delete(ctx context.Context, actor models.User, employeeID uint) error {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.Employee{}, employeeID)
	if result.Error != nil {
		return mapDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.CodeNotFound, "employee not found")
	}

	s.logger.Info("employee deleted", zap.Uint("employee_id", employeeID), zap.Uint("deleted_by", actor.ID))
	return nil
}

// Me returns the actor's own employee profile.
func (s *EmployeeService) Me(ctx context.Context, actor models.User) (EmployeeDTO, error) {
	employee, err := s.scopes.requireEmployee(ctx, actor)
	if err != nil {
		return EmployeeDTO{}, err
	}

	if err := s.db.WithContext(ctx).Preload("Department").Preload("Roles").First(&employee, employee.ID).Error; err != nil {
		return EmployeeDTO{}, fmt.Errorf("reload employee: %w", err)
	}
	return employeeToDTO(employee), nil
}

// ManagerStatus reports the resolved tier and department in the shape the
// frontend dashboard expects.
func (s *EmployeeService) ManagerStatus(ctx context.Context, actor models.User) (ManagerStatus, error) {
	tier, principal, err := s.scopes.snapshot(ctx, actor)
	if err != nil {
		return ManagerStatus{}, err
	}

	status := ManagerStatus{
		IsAdmin:      tier == access.TierAdmin,
		IsManager:    tier >= access.TierManager,
		DepartmentID: principal.DepartmentID,
	}
	if principal.DepartmentID != nil {
		var department models.Department
		if err := s.db.WithContext(ctx).First(&department, *principal.DepartmentID).Error; err == nil {
			status.DepartmentName = &department.Name
		}
	}
	return status, nil
}

func (s *EmployeeService) ensureDepartmentExists(ctx context.Context, departmentID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", departmentID).Count(&count).Error; err != nil {
		return fmt.Errorf("check department existence: %w", err)
	}
	if count == 0 {
		return apperror.New(apperror.CodeNotFound, "department not found")
	}
	return nil
}

func loadRoles(tx *gorm.DB, roleIDs []uint) ([]models.Role, error) {
	var roles []models.Role
	if len(roleIDs) == 0 {
		return roles, nil
	}
	if err := tx.Where("id IN ?", roleIDs).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	if len(roles) != len(roleIDs) {
		return nil, apperror.New(apperror.CodeValidation, "one or more role ids do not exist")
	}
	return roles, nil
}

func employeeResource(employee models.Employee) access.Resource {
	return access.Resource{
		EmployeeID:   &employee.ID,
		DepartmentID: employee.DepartmentID,
	}
}

// employeeViewable decides single-record reads. Self-exclusion only shapes
// listings; a manager can still open their own profile directly.
func employeeViewable(predicate access.Predicate, employee models.Employee) bool {
	predicate.ExcludeEmployeeID = nil
	return predicate.Allows(employeeResource(employee))
}
