package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/access"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type LeaveService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
	now    func() time.Time
}

func NewLeaveService(db *gorm.DB, logger *zap.Logger) *LeaveService {
	return &LeaveService{db: db, scopes: scopeResolver{db: db}, logger: logger, now: time.Now}
}

// List returns leave requests visible to the actor, newest first. Managers
// see their department; a manager without one gets the no_department error.
func (s *LeaveService) List(ctx context.Context, actor models.User) ([]LeaveRequestDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindLeaveRequest)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Preload("Employee.Department").Order("created_at DESC")
	switch {
	case predicate.All:
		// no filter
	case predicate.None:
		return []LeaveRequestDTO{}, nil
	case predicate.DepartmentID != nil:
		departmentMembers := s.db.Model(&models.Employee{}).
			Select("id").
			Where("department_id = ?", *predicate.DepartmentID)
		query = query.Where("employee_id IN (?)", departmentMembers)
	case predicate.SelfEmployeeID != nil:
		query = query.Where("employee_id = ?", *predicate.SelfEmployeeID)
	default:
		return []LeaveRequestDTO{}, nil
	}

	var requests []models.LeaveRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return leaveRequestsToDTOs(requests), nil
}

func (s *LeaveService) MyLeaveRequests(ctx context.Context, actor models.User) ([]LeaveRequestDTO, error) {
	employee, err := s.scopes.requireEmployee(ctx, actor)
	if err != nil {
		return nil, err
	}

	var requests []models.LeaveRequest
	err = s.db.WithContext(ctx).
		Where("employee_id = ?", employee.ID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("list own leave requests: %w", err)
	}
	return leaveRequestsToDTOs(requests), nil
}

// Create submits a request for the actor's own employee profile. Date
// validation happens before anything is persisted; every request starts
// pending.
func (s *LeaveService) Create(ctx context.Context, actor models.User, input CreateLeaveRequestInput) (LeaveRequestDTO, error) {
	employee, err := s.scopes.requireEmployee(ctx, actor)
	if err != nil {
		return LeaveRequestDTO{}, err
	}

	leaveType, err := normalizeRequiredString(input.Type, "type")
	if err != nil {
		return LeaveRequestDTO{}, err
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeValidation, "start_date and end_date are required")
	}

	today := leaveToday(s.now())
	if input.StartDate.Before(today) {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeValidation, "start_date must not be in the past")
	}
	if input.EndDate.Before(input.StartDate) {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeValidation, "end_date must not be before start_date")
	}

	request := models.LeaveRequest{
		EmployeeID: employee.ID,
		Type:       leaveType,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Message:    strings.TrimSpace(input.Message),
		Status:     models.LeaveStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return LeaveRequestDTO{}, mapDatabaseError(err)
	}

	s.logger.Info("leave request submitted",
		zap.Uint("request_id", request.ID),
		zap.Uint("employee_id", employee.ID))
	return leaveRequestToDTO(request), nil
}

func (s *LeaveService) Approve(ctx context.Context, actor models.User, requestID uint, comment string) (LeaveRequestDTO, error) {
	return s.transition(ctx, actor, requestID, models.LeaveStatusApproved, comment)
}

func (s *LeaveService) Reject(ctx context.Context, actor models.User, requestID uint, comment string) (LeaveRequestDTO, error) {
	return s.transition(ctx, actor, requestID, models.LeaveStatusRejected, comment)
}

// transition moves a pending request to a terminal status. Approved and
// rejected are both terminal: re-processing is a Conflict, never a no-op.
// The status check and the update run in one transaction so two concurrent
// decisions cannot both win.
func (s *LeaveService) transition(ctx context.Context, actor models.User, requestID uint, target models.LeaveStatus, comment string) (LeaveRequestDTO, error) {
	tier, _, predicate, err := s.scopes.scope(ctx, actor, access.KindLeaveRequest)
	if err != nil {
		return LeaveRequestDTO{}, err
	}
	if tier < access.TierManager {
		return LeaveRequestDTO{}, apperror.New(apperror.CodeForbidden, "insufficient permissions")
	}

	var request models.LeaveRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Employee.Department").First(&request, requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.CodeNotFound, "leave request not found")
		}
		if err != nil {
			return fmt.Errorf("load leave request: %w", err)
		}

		if !predicate.Allows(leaveResource(request)) {
			return apperror.New(apperror.CodeForbidden, "leave request is outside your scope")
		}
		if err := leaveTransitionGuard(request.Status); err != nil {
			return err
		}

		result := tx.Model(&models.LeaveRequest{}).
			Where("id = ? AND status = ?", requestID, models.LeaveStatusPending).
			Updates(map[string]interface{}{
				"status":        target,
				"admin_comment": strings.TrimSpace(comment),
			})
		if result.Error != nil {
			return mapDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.New(apperror.CodeConflict, "leave request has already been processed")
		}

		request.Status = target
		request.AdminComment = strings.TrimSpace(comment)
		return nil
	})
	if err != nil {
		return LeaveRequestDTO{}, err
	}

	s.logger.Info("leave request processed",
		zap.Uint("request_id", requestID),
		zap.String("status", string(target)),
		zap.Uint("decided_by", actor.ID))
	return leaveRequestToDTO(request), nil
}

// Delete removes a request under the usual scope rule; approved requests
// cannot be deleted.
func (s *LeaveService) Delete(ctx context.Context, actor models.User, requestID uint) error {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindLeaveRequest)
	if err != nil {
		return err
	}

	var request models.LeaveRequest
	err = s.db.WithContext(ctx).Preload("Employee.Department").First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(apperror.CodeNotFound, "leave request not found")
	}
	if err != nil {
		return fmt.Errorf("load leave request: %w", err)
	}

	if !predicate.Allows(leaveResource(request)) {
		return apperror.New(apperror.CodeForbidden, "leave request is outside your scope")
	}
	if err := leaveDeleteGuard(request.Status); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.LeaveRequest{}, requestID).Error; err != nil {
		return mapDatabaseError(err)
	}
	return nil
}

func (s *LeaveService) Statistics(ctx context.Context, actor models.User) (LeaveStatistics, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return LeaveStatistics{}, err
	}

	var stats LeaveStatistics
	counts := map[models.LeaveStatus]*int64{
		models.LeaveStatusPending:  &stats.Pending,
		models.LeaveStatusApproved: &stats.Approved,
		models.LeaveStatusRejected: &stats.Rejected,
	}
	for status, target := range counts {
		err := s.db.WithContext(ctx).Model(&models.LeaveRequest{}).
			Where("status = ?", status).
			Count(target).Error
		if err != nil {
			return LeaveStatistics{}, fmt.Errorf("count leave requests: %w", err)
		}
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// leaveTransitionGuard rejects decisions on already-processed requests;
// approved and rejected are both terminal.
func leaveTransitionGuard(status models.LeaveStatus) error {
	if status.Terminal() {
		return apperror.New(apperror.CodeConflict, "leave request has already been processed")
	}
	return nil
}

// leaveDeleteGuard blocks removal of approved requests; pending and
// rejected ones may still be withdrawn.
func leaveDeleteGuard(status models.LeaveStatus) error {
	if status == models.LeaveStatusApproved {
		return apperror.New(apperror.CodeConflict, "an approved leave request cannot be deleted")
	}
	return nil
}

// leaveToday is the past-date boundary: midnight of the current UTC
// calendar day, independent of the process time zone. Request dates are
// parsed as UTC midnights, so comparisons stay on the same axis.
func leaveToday(now time.Time) time.Time {
	n := now.UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func leaveResource(request models.LeaveRequest) access.Resource {
	resource := access.Resource{EmployeeID: &request.EmployeeID}
	if request.Employee != nil {
		resource.DepartmentID = request.Employee.DepartmentID
	}
	return resource
}

func leaveRequestsToDTOs(requests []models.LeaveRequest) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, 0, len(requests))
	for _, request := range requests {
		dtos = append(dtos, leaveRequestToDTO(request))
	}
	return dtos
}
