package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/access"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type TaskService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
}

func NewTaskService(db *gorm.DB, logger *zap.Logger) *TaskService {
	return &TaskService{db: db, scopes: scopeResolver{db: db}, logger: logger}
}

// List returns tasks visible to the actor, ordered by due date (tasks
// without one sort last).
func (s *TaskService) List(ctx context.Context, actor models.User) ([]TaskDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindTask)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Preload("Employee.Department").
		Order("due_date ASC NULLS LAST, created_at DESC")

	switch {
	case predicate.All:
		// no filter
	case predicate.None:
		return []TaskDTO{}, nil
	case predicate.DepartmentID != nil:
		departmentMembers := s.db.Model(&models.Employee{}).
			Select("id").
			Where("department_id = ?", *predicate.DepartmentID)
		if predicate.CreatorUserID != nil {
			query = query.Where("employee_id IN (?) OR creator_id = ?", departmentMembers, *predicate.CreatorUserID)
		} else {
			query = query.Where("employee_id IN (?)", departmentMembers)
		}
	case predicate.SelfEmployeeID != nil:
		query = query.Where("employee_id = ?", *predicate.SelfEmployeeID)
	default:
		return []TaskDTO{}, nil
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasksToDTOs(tasks), nil
}

// MyTasks returns the actor's own assignments regardless of tier.
func (s *TaskService) MyTasks(ctx context.Context, actor models.User) ([]TaskDTO, error) {
	employee, err := s.scopes.requireEmployee(ctx, actor)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	err = s.db.WithContext(ctx).
		Preload("Employee.Department").
		Where("employee_id = ?", employee.ID).
		Order("due_date ASC NULLS LAST, created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list own tasks: %w", err)
	}
	return tasksToDTOs(tasks), nil
}

func (s *TaskService) Get(ctx context.Context, actor models.User, taskID uint) (TaskDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindTask)
	if err != nil {
		return TaskDTO{}, err
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return TaskDTO{}, err
	}

	if !predicate.Allows(taskResource(task)) {
		return TaskDTO{}, apperror.New(apperror.CodeNotFound, "task not found")
	}
	return taskToDTO(task), nil
}

// Create assigns a task; managers may only target employees in their own
// department.
func (s *TaskService) Create(ctx context.Context, actor models.User, input CreateTaskInput) (TaskDTO, error) {
	tier, _, err := s.scopes.requireManager(ctx, actor)
	if err != nil {
		return TaskDTO{}, err
	}

	title, err := normalizeRequiredString(input.Title, "title")
	if err != nil {
		return TaskDTO{}, err
	}

	var assignee models.Employee
	err = s.db.WithContext(ctx).First(&assignee, input.EmployeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TaskDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
	}
	if err != nil {
		return TaskDTO{}, fmt.Errorf("load assignee: %w", err)
	}

	if tier != access.TierAdmin {
		_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindTask)
		if err != nil {
			return TaskDTO{}, err
		}
		if !predicate.Allows(employeeResource(assignee)) {
			return TaskDTO{}, apperror.New(apperror.CodeForbidden, "cannot assign tasks outside your department")
		}
	}

	creatorID := actor.ID
	task := models.Task{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
		EmployeeID:  assignee.ID,
		CreatorID:   &creatorID,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return TaskDTO{}, mapDatabaseError(err)
	}

	s.logger.Info("task created",
		zap.Uint("task_id", task.ID),
		zap.Uint("employee_id", assignee.ID),
		zap.Uint("created_by", actor.ID))

	task.Employee = &assignee
	return taskToDTO(task), nil
}

// Update applies changes after re-checking the actor's predicate against
// the stored task. Plain employees may only move the status of their own
// assignments.
func (s *TaskService) Update(ctx context.Context, actor models.User, taskID uint, input UpdateTaskInput) (TaskDTO, error) {
	tier, _, predicate, err := s.scopes.scope(ctx, actor, access.KindTask)
	if err != nil {
		return TaskDTO{}, err
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return TaskDTO{}, err
	}

	if !predicate.Allows(taskResource(task)) {
		return TaskDTO{}, apperror.New(apperror.CodeForbidden, "task is outside your scope")
	}

	updates := map[string]interface{}{}
	if input.Status != nil {
		if !input.Status.Valid() {
			return TaskDTO{}, apperror.New(apperror.CodeValidation, "invalid task status")
		}
		updates["status"] = *input.Status
	}

	if tier == access.TierEmployee {
		if input.Title != nil || input.Description != nil || input.DueDate != nil || input.EmployeeID != nil {
			return TaskDTO{}, apperror.New(apperror.CodeForbidden, "only the task status can be changed")
		}
	} else {
		if input.Title != nil {
			title, err := normalizeRequiredString(*input.Title, "title")
			if err != nil {
				return TaskDTO{}, err
			}
			updates["title"] = title
		}
		if input.Description != nil {
			updates["description"] = strings.TrimSpace(*input.Description)
		}
		if input.DueDate != nil {
			updates["due_date"] = *input.DueDate
		}
		if input.EmployeeID != nil {
			var assignee models.Employee
			err := s.db.WithContext(ctx).First(&assignee, *input.EmployeeID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return TaskDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
			}
			if err != nil {
				return TaskDTO{}, fmt.Errorf("load assignee: %w", err)
			}
			if tier != access.TierAdmin && !predicate.Allows(employeeResource(assignee)) {
				return TaskDTO{}, apperror.New(apperror.CodeForbidden, "cannot reassign tasks outside your department")
			}
			updates["employee_id"] = *input.EmployeeID
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
			return TaskDTO{}, mapDatabaseError(err)
		}
	}

	task, err = s.loadTask(ctx, taskID)
	if err != nil {
		return TaskDTO{}, err
	}
	return taskToDTO(task), nil
}

// Delete removes a task under the same scope rule as Update.
func (s *TaskService) Delete(ctx context.Context, actor models.User, taskID uint) error {
	tier, _, predicate, err := s.scopes.scope(ctx, actor, access.KindTask)
	if err != nil {
		return err
	}
	if tier < access.TierManager {
		return apperror.New(apperror.CodeForbidden, "insufficient permissions")
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !predicate.Allows(taskResource(task)) {
		return apperror.New(apperror.CodeForbidden, "task is outside your scope")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Task{}, taskID).Error; err != nil {
		return mapDatabaseError(err)
	}
	return nil
}

func (s *TaskService) loadTask(ctx context.Context, taskID uint) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Preload("Employee.Department").First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, apperror.New(apperror.CodeNotFound, "task not found")
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("load task: %w", err)
	}
	return task, nil
}

// taskResource projects a task into the view the predicate inspects; the
// owning department comes through the assigned employee.
func taskResource(task models.Task) access.Resource {
	resource := access.Resource{
		EmployeeID: &task.EmployeeID,
		CreatorID:  task.CreatorID,
	}
	if task.Employee != nil {
		resource.DepartmentID = task.Employee.DepartmentID
	}
	return resource
}

func tasksToDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, taskToDTO(task))
	}
	return dtos
}
