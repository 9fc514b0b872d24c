package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/access"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

// scopeResolver collects the role signal snapshot for a user and turns it
// into a tier and predicate. All gateways resolve through here so the
// permission rules cannot drift between resources. Nothing is cached: the
// snapshot is re-read on every call.
type scopeResolver struct {
	db *gorm.DB
}

// snapshot loads the principal's employee profile (when not preloaded) and
// the two manager signals, then hands the explicit snapshot to the pure
// resolver.
func (r scopeResolver) snapshot(ctx context.Context, actor models.User) (access.Tier, access.Principal, error) {
	principal := access.Principal{UserID: actor.ID}

	employee := actor.Employee
	if employee == nil && actor.ID != 0 {
		var emp models.Employee
		err := r.db.WithContext(ctx).Where("user_id = ?", actor.ID).First(&emp).Error
		switch {
		case err == nil:
			employee = &emp
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no employee profile; the tier falls out of the raw role
		default:
			return access.TierUnauthenticated, principal, fmt.Errorf("load employee profile: %w", err)
		}
	}

	signals := access.Signals{
		RawRole:     actor.Role,
		HasEmployee: employee != nil,
	}

	if employee != nil {
		principal.EmployeeID = &employee.ID
		principal.DepartmentID = employee.DepartmentID

		var grants int64
		err := r.db.WithContext(ctx).
			Table("employee_roles").
			Joins("JOIN roles ON roles.id = employee_roles.role_id").
			Where("employee_roles.employee_id = ? AND LOWER(roles.name) = ?", employee.ID, models.RoleNameManager).
			Count(&grants).Error
		if err != nil {
			return access.TierUnauthenticated, principal, fmt.Errorf("check manager role grant: %w", err)
		}
		signals.HasManagerGrant = grants > 0

		var assignments int64
		err = r.db.WithContext(ctx).
			Model(&models.ManagerAssignment{}).
			Where("employee_id = ?", employee.ID).
			Count(&assignments).Error
		if err != nil {
			return access.TierUnauthenticated, principal, fmt.Errorf("check manager assignment: %w", err)
		}
		signals.HasManagerAssignment = assignments > 0
	}

	return access.ResolveTier(signals), principal, nil
}

// scope resolves the predicate for one resource kind, mapping the
// missing-department state to its dedicated error code.
func (r scopeResolver) scope(ctx context.Context, actor models.User, kind access.Kind) (access.Tier, access.Principal, access.Predicate, error) {
	tier, principal, err := r.snapshot(ctx, actor)
	if err != nil {
		return tier, principal, access.Predicate{}, err
	}

	predicate, err := access.BuildPredicate(tier, principal, kind)
	if errors.Is(err, access.ErrNoDepartment) {
		return tier, principal, predicate, apperror.New(apperror.CodeNoDepartment, "manager has no department assigned")
	}
	if err != nil {
		return tier, principal, predicate, err
	}
	return tier, principal, predicate, nil
}

// requireAdmin guards the gateways whose whole surface is admin-only.
func (r scopeResolver) requireAdmin(ctx context.Context, actor models.User) error {
	tier, _, err := r.snapshot(ctx, actor)
	if err != nil {
		return err
	}
	if tier != access.TierAdmin {
		return apperror.New(apperror.CodeForbidden, "administrator access required")
	}
	return nil
}

// requireManager guards operations open to managers and admins.
func (r scopeResolver) requireManager(ctx context.Context, actor models.User) (access.Tier, access.Principal, error) {
	tier, principal, err := r.snapshot(ctx, actor)
	if err != nil {
		return tier, principal, err
	}
	if tier < access.TierManager {
		return tier, principal, apperror.New(apperror.CodeForbidden, "insufficient permissions")
	}
	return tier, principal, nil
}

// requireEmployee returns the acting employee profile or a not-found error
// for "my profile" style endpoints.
func (r scopeResolver) requireEmployee(ctx context.Context, actor models.User) (models.Employee, error) {
	if actor.Employee != nil {
		return *actor.Employee, nil
	}

	var employee models.Employee
	err := r.db.WithContext(ctx).Where("user_id = ?", actor.ID).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Employee{}, apperror.New(apperror.CodeNotFound, "no employee profile linked to this account")
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("load employee profile: %w", err)
	}
	return employee, nil
}
