package service

import (
	"context"
	"time"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

// ---- Auth ----

type LoginInput struct {
	Email    string
	Password string
}

type UserDTO struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	NeedsPasswordChange bool   `json:"needs_password_change"`
}

type LoginResult struct {
	Token               string       `json:"token"`
	User                UserDTO      `json:"user"`
	Employee            *EmployeeDTO `json:"employee,omitempty"`
	NeedsPasswordChange bool         `json:"needs_password_change"`
}

type UpdatePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type AuthManager interface {
	Login(ctx context.Context, input LoginInput) (LoginResult, error)
	UpdatePassword(ctx context.Context, actor models.User, input UpdatePasswordInput) error
	// LoadUser rehydrates the token subject with its employee profile; the
	// auth middleware calls it on every request.
	LoadUser(ctx context.Context, userID uint) (models.User, error)
}

// ---- Employees ----

type CreateEmployeeInput struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	ContractType string
	HireDate     time.Time
	SalaryBase   float64
	DepartmentID *uint
	RoleIDs      []uint
}

type UpdateEmployeeInput struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	ContractType *string
	HireDate     *time.Time
	SalaryBase   *float64
	DepartmentID *uint
	// DepartmentIDSet distinguishes "clear the department" from "leave it".
	DepartmentIDSet bool
	RoleIDs         []uint
	RoleIDsSet      bool
	Status          *string
}

type EmployeeDTO struct {
	ID           uint           `json:"id"`
	UserID       *uint          `json:"user_id,omitempty"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	ContractType string         `json:"contract_type"`
	HireDate     string         `json:"hire_date"`
	SalaryBase   float64        `json:"salary_base"`
	DepartmentID *uint          `json:"department_id"`
	Department   *DepartmentDTO `json:"department,omitempty"`
	Status       string         `json:"status"`
	Roles        []RoleDTO      `json:"roles,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// CreatedEmployee carries the temporary account password back to the admin;
// the original system mailed it instead (mail delivery is out of scope).
type CreatedEmployee struct {
	Employee          EmployeeDTO `json:"employee"`
	TemporaryPassword string      `json:"temporary_password"`
}

type ManagerStatus struct {
	IsAdmin        bool    `json:"is_admin"`
	IsManager      bool    `json:"is_manager"`
	DepartmentID   *uint   `json:"department_id"`
	DepartmentName *string `json:"department_name"`
}

type EmployeeManager interface {
	List(ctx context.Context, actor models.User) ([]EmployeeDTO, error)
	Get(ctx context.Context, actor models.User, employeeID uint) (EmployeeDTO, error)
	Create(ctx context.Context, actor models.User, input CreateEmployeeInput) (CreatedEmployee, error)
	Update(ctx context.Context, actor models.User, employeeID uint, input UpdateEmployeeInput) (EmployeeDTO, error)
	Delete(ctx context.Context, actor models.User, employeeID uint) error
	Me(ctx context.Context, actor models.User) (EmployeeDTO, error)
	ManagerStatus(ctx context.Context, actor models.User) (ManagerStatus, error)
}

// ---- Departments ----

type CreateDepartmentInput struct {
	Name        string
	Description string
}

type UpdateDepartmentInput struct {
	Name        *string
	Description *string
}

type DepartmentDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type DepartmentManager interface {
	List(ctx context.Context, actor models.User) ([]DepartmentDTO, error)
	Get(ctx context.Context, actor models.User, departmentID uint) (DepartmentDTO, error)
	Create(ctx context.Context, actor models.User, input CreateDepartmentInput) (DepartmentDTO, error)
	Update(ctx context.Context, actor models.User, departmentID uint, input UpdateDepartmentInput) (DepartmentDTO, error)
	Delete(ctx context.Context, actor models.User, departmentID uint) error
}

// ---- Roles ----

type RoleDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateRoleInput struct {
	Name        string
	Description string
}

type UpdateRoleInput struct {
	Name        *string
	Description *string
}

type RoleManager interface {
	List(ctx context.Context, actor models.User) ([]RoleDTO, error)
	Create(ctx context.Context, actor models.User, input CreateRoleInput) (RoleDTO, error)
	Update(ctx context.Context, actor models.User, roleID uint, input UpdateRoleInput) (RoleDTO, error)
	Delete(ctx context.Context, actor models.User, roleID uint) error
	AssignToEmployee(ctx context.Context, actor models.User, employeeID uint, roleIDs []uint) (EmployeeDTO, error)
}

// ---- Manager assignments ----

type CreateManagerInput struct {
	EmployeeID   uint
	DepartmentID *uint
}

type ManagerDTO struct {
	ID           uint           `json:"id"`
	EmployeeID   uint           `json:"employee_id"`
	Employee     *EmployeeDTO   `json:"employee,omitempty"`
	DepartmentID *uint          `json:"department_id"`
	Department   *DepartmentDTO `json:"department,omitempty"`
	FullName     string         `json:"full_name"`
	Email        string         `json:"email"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ManagerAdmin interface {
	List(ctx context.Context, actor models.User) ([]ManagerDTO, error)
	Create(ctx context.Context, actor models.User, input CreateManagerInput) (ManagerDTO, error)
	Delete(ctx context.Context, actor models.User, managerID uint) error
}

// ---- Tasks ----

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	EmployeeID  uint
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	DueDate     *time.Time
	EmployeeID  *uint
}

type TaskDTO struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *string           `json:"due_date"`
	EmployeeID  uint              `json:"employee_id"`
	Employee    *EmployeeDTO      `json:"employee,omitempty"`
	CreatorID   *uint             `json:"creator_id"`
	CreatedAt   time.Time         `json:"created_at"`
}

type TaskManager interface {
	List(ctx context.Context, actor models.User) ([]TaskDTO, error)
	MyTasks(ctx context.Context, actor models.User) ([]TaskDTO, error)
	Get(ctx context.Context, actor models.User, taskID uint) (TaskDTO, error)
	Create(ctx context.Context, actor models.User, input CreateTaskInput) (TaskDTO, error)
	Update(ctx context.Context, actor models.User, taskID uint, input UpdateTaskInput) (TaskDTO, error)
	Delete(ctx context.Context, actor models.User, taskID uint) error
}

// ---- Presences ----

type CheckInInput struct {
	// EmployeeID may be set by an admin clocking someone else in; everyone
	// else checks in their own profile.
	EmployeeID *uint
	Date       *time.Time
	CheckIn    *time.Time
}

type PresenceDTO struct {
	ID         uint         `json:"id"`
	EmployeeID uint         `json:"employee_id"`
	Employee   *EmployeeDTO `json:"employee,omitempty"`
	Date       string       `json:"date"`
	CheckIn    time.Time    `json:"check_in"`
	CheckOut   *time.Time   `json:"check_out"`
	TotalHours *float64     `json:"total_hours"`
	CreatedAt  time.Time    `json:"created_at"`
}

type PresenceManager interface {
	List(ctx context.Context, actor models.User) ([]PresenceDTO, error)
	MyPresences(ctx context.Context, actor models.User) ([]PresenceDTO, error)
	CheckIn(ctx context.Context, actor models.User, input CheckInInput) (PresenceDTO, error)
	CheckOut(ctx context.Context, actor models.User, presenceID uint, at *time.Time) (PresenceDTO, error)
	Delete(ctx context.Context, actor models.User, presenceID uint) error
}

// ---- Leave requests ----

type CreateLeaveRequestInput struct {
	Type      string
	StartDate time.Time
	EndDate   time.Time
	Message   string
}

type LeaveRequestDTO struct {
	ID           uint               `json:"id"`
	EmployeeID   uint               `json:"employee_id"`
	Employee     *EmployeeDTO       `json:"employee,omitempty"`
	Type         string             `json:"type"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Message      string             `json:"message,omitempty"`
	Status       models.LeaveStatus `json:"status"`
	AdminComment string             `json:"admin_comment,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

type LeaveStatistics struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type LeaveManager interface {
	List(ctx context.Context, actor models.User) ([]LeaveRequestDTO, error)
	MyLeaveRequests(ctx context.Context, actor models.User) ([]LeaveRequestDTO, error)
	Create(ctx context.Context, actor models.User, input CreateLeaveRequestInput) (LeaveRequestDTO, error)
	Approve(ctx context.Context, actor models.User, requestID uint, comment string) (LeaveRequestDTO, error)
	Reject(ctx context.Context, actor models.User, requestID uint, comment string) (LeaveRequestDTO, error)
	Delete(ctx context.Context, actor models.User, requestID uint) error
	Statistics(ctx context.Context, actor models.User) (LeaveStatistics, error)
}

// ---- Announcements ----

type CreateAnnouncementInput struct {
	Title        string
	Message      string
	EmployeeID   *uint
	DepartmentID *uint
	IsGeneral    bool
}

type UpdateAnnouncementInput struct {
	Title        *string
	Message      *string
	EmployeeID   *uint
	DepartmentID *uint
	IsGeneral    *bool
	// TargetingSet is true when the request touched any targeting field,
	// which re-runs the targeting priority rule over the merged state.
	TargetingSet bool
}

type AnnouncementDTO struct {
	ID           uint           `json:"id"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	CreatorID    *uint          `json:"creator_id"`
	EmployeeID   *uint          `json:"employee_id"`
	DepartmentID *uint          `json:"department_id"`
	Department   *DepartmentDTO `json:"department,omitempty"`
	IsGeneral    bool           `json:"is_general"`
	CreatedAt    time.Time      `json:"created_at"`
}

type AnnouncementManager interface {
	List(ctx context.Context, actor models.User, search string) ([]AnnouncementDTO, error)
	MyAnnouncements(ctx context.Context, actor models.User, limit int) ([]AnnouncementDTO, error)
	Get(ctx context.Context, actor models.User, announcementID uint) (AnnouncementDTO, error)
	Create(ctx context.Context, actor models.User, input CreateAnnouncementInput) (AnnouncementDTO, error)
	Update(ctx context.Context, actor models.User, announcementID uint, input UpdateAnnouncementInput) (AnnouncementDTO, error)
	Delete(ctx context.Context, actor models.User, announcementID uint) error
}

// ---- Dashboard ----

type DashboardStats struct {
	Employees     int64 `json:"employees"`
	Departments   int64 `json:"departments"`
	Tasks         int64 `json:"tasks"`
	LeaveRequests int64 `json:"leave_requests"`
	Managers      int64 `json:"managers"`
	Roles         int64 `json:"roles"`
	Announcements int64 `json:"announcements"`
	Presences     int64 `json:"presences"`
}

type DashboardManager interface {
	Stats(ctx context.Context, actor models.User) (DashboardStats, error)
}
