package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/access"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type PresenceService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
	now    func() time.Time
}

func NewPresenceService(db *gorm.DB, logger *zap.Logger) *PresenceService {
	return &PresenceService{db: db, scopes: scopeResolver{db: db}, logger: logger, now: time.Now}
}

func (s *PresenceService) List(ctx context.Context, actor models.User) ([]PresenceDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindPresence)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Preload("Employee").Order("created_at DESC")
	switch {
	case predicate.All:
		// no filter
	case predicate.None:
		return []PresenceDTO{}, nil
	case predicate.DepartmentID != nil:
		departmentMembers := s.db.Model(&models.Employee{}).
			Select("id").
			Where("department_id = ?", *predicate.DepartmentID)
		query = query.Where("employee_id IN (?)", departmentMembers)
	case predicate.SelfEmployeeID != nil:
		query = query.Where("employee_id = ?", *predicate.SelfEmployeeID)
	default:
		return []PresenceDTO{}, nil
	}

	var presences []models.Presence
	if err := query.Find(&presences).Error; err != nil {
		return nil, fmt.Errorf("list presences: %w", err)
	}
	return presencesToDTOs(presences), nil
}

func (s *PresenceService) MyPresences(ctx context.Context, actor models.User) ([]PresenceDTO, error) {
	employee, err := s.scopes.requireEmployee(ctx, actor)
	if err != nil {
		return nil, err
	}

	var presences []models.Presence
	err = s.db.WithContext(ctx).
		Where("employee_id = ?", employee.ID).
		Order("created_at DESC").
		Find(&presences).Error
	if err != nil {
		return nil, fmt.Errorf("list own presences: %w", err)
	}
	return presencesToDTOs(presences), nil
}

// CheckIn opens a presence record. The no-open-check-in test and the insert
// run inside one transaction, and the partial unique index on
// (employee_id, date) WHERE check_out IS NULL decides a true race: the
// losing insert surfaces as a Conflict.
func (s *PresenceService) CheckIn(ctx context.Context, actor models.User, input CheckInInput) (PresenceDTO, error) {
	employeeID, err := s.checkInTarget(ctx, actor, input)
	if err != nil {
		return PresenceDTO{}, err
	}

	now := s.now()
	checkIn := now
	if input.CheckIn != nil {
		checkIn = *input.CheckIn
	}
	date := checkIn.Truncate(24 * time.Hour)
	if input.Date != nil {
		date = input.Date.Truncate(24 * time.Hour)
	}

	var presence models.Presence
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&models.Presence{}).
			Where("employee_id = ? AND check_out IS NULL", employeeID).
			Count(&open).Error
		if err != nil {
			return fmt.Errorf("check open presence: %w", err)
		}
		if open > 0 {
			return apperror.New(apperror.CodeConflict, "an open check-in already exists for this employee")
		}

		presence = models.Presence{
			EmployeeID: employeeID,
			Date:       date,
			CheckIn:    checkIn,
		}
		if err := tx.Create(&presence).Error; err != nil {
			return mapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return PresenceDTO{}, err
	}

	s.logger.Info("check-in recorded",
		zap.Uint("presence_id", presence.ID),
		zap.Uint("employee_id", employeeID))
	return presenceToDTO(presence), nil
}

// CheckOut closes an open presence and computes the total hours.
func (s *PresenceService) CheckOut(ctx context.Context, actor models.User, presenceID uint, at *time.Time) (PresenceDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindPresence)
	if err != nil {
		return PresenceDTO{}, err
	}

	var presence models.Presence
	err = s.db.WithContext(ctx).Preload("Employee").First(&presence, presenceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PresenceDTO{}, apperror.New(apperror.CodeNotFound, "presence not found")
	}
	if err != nil {
		return PresenceDTO{}, fmt.Errorf("load presence: %w", err)
	}

	if !predicate.Allows(presenceResource(presence)) {
		return PresenceDTO{}, apperror.New(apperror.CodeForbidden, "presence is outside your scope")
	}
	if presence.CheckOut != nil {
		return PresenceDTO{}, apperror.New(apperror.CodeConflict, "presence is already checked out")
	}

	checkOut := s.now()
	if at != nil {
		checkOut = *at
	}
	if checkOut.Before(presence.CheckIn) {
		return PresenceDTO{}, apperror.New(apperror.CodeValidation, "check_out must not be before check_in")
	}

	totalHours := math.Round(checkOut.Sub(presence.CheckIn).Hours()*100) / 100
	err = s.db.WithContext(ctx).Model(&presence).Updates(map[string]interface{}{
		"check_out":   checkOut,
		"total_hours": totalHours,
	}).Error
	if err != nil {
		return PresenceDTO{}, mapDatabaseError(err)
	}

	presence.CheckOut = &checkOut
	presence.TotalHours = &totalHours
	return presenceToDTO(presence), nil
}

func (s *PresenceService) Delete(ctx context.Context, actor models.User, presenceID uint) error {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.Presence{}, presenceID)
	if result.Error != nil {
		return mapDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.CodeNotFound, "presence not found")
	}
	return nil
}

// checkInTarget resolves which employee the check-in is for: admins may
// clock anyone in, everyone else clocks in their own profile.
func (s *PresenceService) checkInTarget(ctx context.Context, actor models.User, input CheckInInput) (uint, error) {
	tier, principal, err := s.scopes.snapshot(ctx, actor)
	if err != nil {
		return 0, err
	}

	if input.EmployeeID != nil {
		if tier != access.TierAdmin && (principal.EmployeeID == nil || *principal.EmployeeID != *input.EmployeeID) {
			return 0, apperror.New(apperror.CodeForbidden, "cannot check in another employee")
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", *input.EmployeeID).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("check employee existence: %w", err)
		}
		if count == 0 {
			return 0, apperror.New(apperror.CodeNotFound, "employee not found")
		}
		return *input.EmployeeID, nil
	}

	employee, err := s.scopes.requireEmployee(ctx, actor)
	if err != nil {
		return 0, err
	}
	return employee.ID, nil
}

func presenceResource(presence models.Presence) access.Resource {
	resource := access.Resource{EmployeeID: &presence.EmployeeID}
	if presence.Employee != nil {
		resource.DepartmentID = presence.Employee.DepartmentID
	}
	return resource
}

func presencesToDTOs(presences []models.Presence) []PresenceDTO {
	dtos := make([]PresenceDTO, 0, len(presences))
	for _, presence := range presences {
		dtos = append(dtos, presenceToDTO(presence))
	}
	return dtos
}
