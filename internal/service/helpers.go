package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

const dateLayout = "2006-01-02"

func normalizeRequiredString(raw string, field string) (string, error) {
	value := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(value)
	if length < 1 || length > 255 {
		return "", apperror.New(apperror.CodeValidation, fmt.Sprintf("%s length must be in range 1..255", field))
	}
	return value, nil
}

func mapDatabaseError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return apperror.New(apperror.CodeConflict, "resource with the same unique attributes already exists")
		}
		if pgErr.Code == "23503" {
			return apperror.New(apperror.CodeValidation, "invalid foreign key reference")
		}
	}
	return err
}

func employeeToDTO(employee models.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           employee.ID,
		UserID:       employee.UserID,
		FirstName:    employee.FirstName,
		LastName:     employee.LastName,
		Email:        employee.Email,
		Phone:        employee.Phone,
		ContractType: employee.ContractType,
		HireDate:     employee.HireDate.Format(dateLayout),
		SalaryBase:   employee.SalaryBase,
		DepartmentID: employee.DepartmentID,
		Status:       employee.Status,
		CreatedAt:    employee.CreatedAt,
	}
	if employee.Department != nil {
		department := departmentToDTO(*employee.Department)
		dto.Department = &department
	}
	for _, role := range employee.Roles {
		dto.Roles = append(dto.Roles, roleToDTO(role))
	}
	return dto
}

func departmentToDTO(department models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		CreatedAt:   department.CreatedAt,
	}
}

func roleToDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
	}
}

func taskToDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		EmployeeID:  task.EmployeeID,
		CreatorID:   task.CreatorID,
		CreatedAt:   task.CreatedAt,
	}
	if task.DueDate != nil {
		formatted := task.DueDate.Format(dateLayout)
		dto.DueDate = &formatted
	}
	if task.Employee != nil {
		employee := employeeToDTO(*task.Employee)
		dto.Employee = &employee
	}
	return dto
}

func presenceToDTO(presence models.Presence) PresenceDTO {
	dto := PresenceDTO{
		ID:         presence.ID,
		EmployeeID: presence.EmployeeID,
		Date:       presence.Date.Format(dateLayout),
		CheckIn:    presence.CheckIn,
		CheckOut:   presence.CheckOut,
		TotalHours: presence.TotalHours,
		CreatedAt:  presence.CreatedAt,
	}
	if presence.Employee != nil {
		employee := employeeToDTO(*presence.Employee)
		dto.Employee = &employee
	}
	return dto
}

func leaveRequestToDTO(request models.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:           request.ID,
		EmployeeID:   request.EmployeeID,
		Type:         request.Type,
		StartDate:    request.StartDate.Format(dateLayout),
		EndDate:      request.EndDate.Format(dateLayout),
		Message:      request.Message,
		Status:       request.Status,
		AdminComment: request.AdminComment,
		CreatedAt:    request.CreatedAt,
	}
	if request.Employee != nil {
		employee := employeeToDTO(*request.Employee)
		dto.Employee = &employee
	}
	return dto
}

func announcementToDTO(announcement models.Announcement) AnnouncementDTO {
	dto := AnnouncementDTO{
		ID:           announcement.ID,
		Title:        announcement.Title,
		Message:      announcement.Message,
		CreatorID:    announcement.CreatorID,
		EmployeeID:   announcement.EmployeeID,
		DepartmentID: announcement.DepartmentID,
		IsGeneral:    announcement.IsGeneral,
		CreatedAt:    announcement.CreatedAt,
	}
	if announcement.Department != nil {
		department := departmentToDTO(*announcement.Department)
		dto.Department = &department
	}
	return dto
}

func userToDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		Role:                user.Role,
		NeedsPasswordChange: user.NeedsPasswordChange,
	}
}
