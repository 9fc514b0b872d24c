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

type AnnouncementService struct {
	db     *gorm.DB
	scopes scopeResolver
	logger *zap.Logger
}

func NewAnnouncementService(db *gorm.DB, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{db: db, scopes: scopeResolver{db: db}, logger: logger}
}

// List returns announcements visible to the actor, newest first, optionally
// filtered by a title/message search.
func (s *AnnouncementService) List(ctx context.Context, actor models.User, search string) ([]AnnouncementDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindAnnouncement)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Preload("Department").Order("created_at DESC")
	query = applyAnnouncementScope(query, predicate)

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("(title ILIKE ? OR message ILIKE ?)", pattern, pattern)
	}

	var announcements []models.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcementsToDTOs(announcements), nil
}

// MyAnnouncements is the dashboard feed: the same visibility union, capped.
func (s *AnnouncementService) MyAnnouncements(ctx context.Context, actor models.User, limit int) ([]AnnouncementDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindAnnouncement)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 5
	}

	query := s.db.WithContext(ctx).Preload("Department").Order("created_at DESC").Limit(limit)
	query = applyAnnouncementScope(query, predicate)

	var announcements []models.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("list own announcements: %w", err)
	}
	return announcementsToDTOs(announcements), nil
}

func (s *AnnouncementService) Get(ctx context.Context, actor models.User, announcementID uint) (AnnouncementDTO, error) {
	_, _, predicate, err := s.scopes.scope(ctx, actor, access.KindAnnouncement)
	if err != nil {
		return AnnouncementDTO{}, err
	}

	announcement, err := s.loadAnnouncement(ctx, announcementID)
	if err != nil {
		return AnnouncementDTO{}, err
	}

	if !predicate.Allows(announcementResource(announcement)) {
		return AnnouncementDTO{}, apperror.New(apperror.CodeNotFound, "announcement not found")
	}
	return announcementToDTO(announcement), nil
}

// Create publishes an announcement. The targeting priority rule runs before
// the row is written, so conflicting audience fields can never persist
// together. Managers may only target their own department.
func (s *AnnouncementService) Create(ctx context.Context, actor models.User, input CreateAnnouncementInput) (AnnouncementDTO, error) {
	tier, principal, err := s.scopes.requireManager(ctx, actor)
	if err != nil {
		return AnnouncementDTO{}, err
	}

	title, err := normalizeRequiredString(input.Title, "title")
	if err != nil {
		return AnnouncementDTO{}, err
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return AnnouncementDTO{}, apperror.New(apperror.CodeValidation, "message is required")
	}

	targeting := access.NormalizeTargeting(access.Targeting{
		IsGeneral:    input.IsGeneral,
		EmployeeID:   input.EmployeeID,
		DepartmentID: input.DepartmentID,
	})

	if err := s.validateTargeting(ctx, tier, principal, targeting); err != nil {
		return AnnouncementDTO{}, err
	}

	creatorID := actor.ID
	announcement := models.Announcement{
		Title:        title,
		Message:      message,
		CreatorID:    &creatorID,
		EmployeeID:   targeting.EmployeeID,
		DepartmentID: targeting.DepartmentID,
		IsGeneral:    targeting.IsGeneral,
	}
	if err := s.db.WithContext(ctx).Create(&announcement).Error; err != nil {
		return AnnouncementDTO{}, mapDatabaseError(err)
	}

	s.logger.Info("announcement created",
		zap.Uint("announcement_id", announcement.ID),
		zap.Uint("created_by", actor.ID))
	return announcementToDTO(announcement), nil
}

// Update edits an announcement the actor created or that sits in their
// department scope. Touching any targeting field re-runs the priority rule
// over the merged state.
func (s *AnnouncementService) Update(ctx context.Context, actor models.User, announcementID uint, input UpdateAnnouncementInput) (AnnouncementDTO, error) {
	tier, principal, predicate, err := s.mutationScope(ctx, actor)
	if err != nil {
		return AnnouncementDTO{}, err
	}

	announcement, err := s.loadAnnouncement(ctx, announcementID)
	if err != nil {
		return AnnouncementDTO{}, err
	}
	if !s.canMutate(predicate, announcement) {
		return AnnouncementDTO{}, apperror.New(apperror.CodeForbidden, "announcement is outside your scope")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title, err := normalizeRequiredString(*input.Title, "title")
		if err != nil {
			return AnnouncementDTO{}, err
		}
		updates["title"] = title
	}
	if input.Message != nil {
		message := strings.TrimSpace(*input.Message)
		if message == "" {
			return AnnouncementDTO{}, apperror.New(apperror.CodeValidation, "message is required")
		}
		updates["message"] = message
	}

	if input.TargetingSet {
		merged := access.Targeting{
			IsGeneral:    announcement.IsGeneral,
			EmployeeID:   announcement.EmployeeID,
			DepartmentID: announcement.DepartmentID,
		}
		if input.IsGeneral != nil {
			merged.IsGeneral = *input.IsGeneral
		}
		if input.EmployeeID != nil {
			merged.EmployeeID = input.EmployeeID
			if input.IsGeneral == nil {
				merged.IsGeneral = false
			}
		}
		if input.DepartmentID != nil {
			merged.DepartmentID = input.DepartmentID
			if input.IsGeneral == nil && input.EmployeeID == nil {
				merged.IsGeneral = false
				merged.EmployeeID = nil
			}
		}

		targeting := access.NormalizeTargeting(merged)
		if err := s.validateTargeting(ctx, tier, principal, targeting); err != nil {
			return AnnouncementDTO{}, err
		}
		updates["is_general"] = targeting.IsGeneral
		updates["employee_id"] = targeting.EmployeeID
		updates["department_id"] = targeting.DepartmentID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Announcement{}).Where("id = ?", announcementID).Updates(updates).Error; err != nil {
			return AnnouncementDTO{}, mapDatabaseError(err)
		}
	}

	announcement, err = s.loadAnnouncement(ctx, announcementID)
	if err != nil {
		return AnnouncementDTO{}, err
	}
	return announcementToDTO(announcement), nil
}

// Delete removes an announcement under the same creator-or-scope rule as
// Update.
func (s *AnnouncementService) Delete(ctx context.Context, actor models.User, announcementID uint) error {
	_, _, predicate, err := s.mutationScope(ctx, actor)
	if err != nil {
		return err
	}

	announcement, err := s.loadAnnouncement(ctx, announcementID)
	if err != nil {
		return err
	}
	if !s.canMutate(predicate, announcement) {
		return apperror.New(apperror.CodeForbidden, "announcement is outside your scope")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Announcement{}, announcementID).Error; err != nil {
		return mapDatabaseError(err)
	}

	s.logger.Info("announcement deleted",
		zap.Uint("announcement_id", announcementID),
		zap.Uint("deleted_by", actor.ID))
	return nil
}

// mutationScope requires manage permission (manager or admin) and resolves
// the announcement predicate for the actor.
func (s *AnnouncementService) mutationScope(ctx context.Context, actor models.User) (access.Tier, access.Principal, access.Predicate, error) {
	tier, principal, predicate, err := s.scopes.scope(ctx, actor, access.KindAnnouncement)
	if err != nil {
		return tier, principal, predicate, err
	}
	if tier < access.TierManager {
		return tier, principal, predicate, apperror.New(apperror.CodeForbidden, "insufficient permissions")
	}
	return tier, principal, predicate, nil
}

// canMutate applies the "creator OR department scope" union. Broadcast
// visibility alone never grants mutation rights: a general announcement by
// another author stays read-only for a manager.
func (s *AnnouncementService) canMutate(predicate access.Predicate, announcement models.Announcement) bool {
	if predicate.All {
		return true
	}
	if predicate.CreatorUserID != nil && announcement.CreatorID != nil && *announcement.CreatorID == *predicate.CreatorUserID {
		return true
	}
	if predicate.DepartmentID != nil && announcement.DepartmentID != nil && *announcement.DepartmentID == *predicate.DepartmentID {
		return true
	}
	return false
}

// validateTargeting checks that the normalized audience exists and that a
// manager is only addressing their own department.
func (s *AnnouncementService) validateTargeting(ctx context.Context, tier access.Tier, principal access.Principal, targeting access.Targeting) error {
	if targeting.DepartmentID != nil {
		if tier != access.TierAdmin {
			if principal.DepartmentID == nil || *principal.DepartmentID != *targeting.DepartmentID {
				return apperror.New(apperror.CodeForbidden, "announcements are limited to your own department")
			}
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", *targeting.DepartmentID).Count(&count).Error; err != nil {
			return fmt.Errorf("check department existence: %w", err)
		}
		if count == 0 {
			return apperror.New(apperror.CodeValidation, "target department does not exist")
		}
	}

	if targeting.EmployeeID != nil {
		var employee models.Employee
		err := s.db.WithContext(ctx).First(&employee, *targeting.EmployeeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.CodeValidation, "target employee does not exist")
		}
		if err != nil {
			return fmt.Errorf("load target employee: %w", err)
		}
		if tier != access.TierAdmin {
			if principal.DepartmentID == nil || employee.DepartmentID == nil || *employee.DepartmentID != *principal.DepartmentID {
				return apperror.New(apperror.CodeForbidden, "announcements are limited to your own department")
			}
		}
	}
	return nil
}

func (s *AnnouncementService) loadAnnouncement(ctx context.Context, announcementID uint) (models.Announcement, error) {
	var announcement models.Announcement
	err := s.db.WithContext(ctx).Preload("Department").First(&announcement, announcementID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Announcement{}, apperror.New(apperror.CodeNotFound, "announcement not found")
	}
	if err != nil {
		return models.Announcement{}, fmt.Errorf("load announcement: %w", err)
	}
	return announcement, nil
}

// applyAnnouncementScope translates the predicate into the visibility union
// with the same semantics as Predicate.Allows.
func applyAnnouncementScope(query *gorm.DB, predicate access.Predicate) *gorm.DB {
	if predicate.All {
		return query
	}
	if predicate.None {
		return query.Where("1 = 0")
	}
	if predicate.GeneralOnly {
		return query.Where("is_general = ?", true)
	}

	clause := "is_general = ?"
	args := []interface{}{true}
	if predicate.DepartmentID != nil {
		clause += " OR department_id = ?"
		args = append(args, *predicate.DepartmentID)
	}
	if predicate.SelfEmployeeID != nil {
		clause += " OR employee_id = ?"
		args = append(args, *predicate.SelfEmployeeID)
	}
	if predicate.CreatorUserID != nil {
		clause += " OR creator_id = ?"
		args = append(args, *predicate.CreatorUserID)
	}
	return query.Where("("+clause+")", args...)
}

func announcementResource(announcement models.Announcement) access.Resource {
	return access.Resource{
		EmployeeID:   announcement.EmployeeID,
		DepartmentID: announcement.DepartmentID,
		CreatorID:    announcement.CreatorID,
		IsGeneral:    announcement.IsGeneral,
	}
}

func announcementsToDTOs(announcements []models.Announcement) []AnnouncementDTO {
	dtos := make([]AnnouncementDTO, 0, len(announcements))
	for _, announcement := range announcements {
		dtos = append(dtos, announcementToDTO(announcement))
	}
	return dtos
}
