package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

type DashboardService struct {
	db     *gorm.DB
	scopes scopeResolver
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, scopes: scopeResolver{db: db}}
}

// Stats returns the admin dashboard counters.
func (s *DashboardService) Stats(ctx context.Context, actor models.User) (DashboardStats, error) {
	if err := s.scopes.requireAdmin(ctx, actor); err != nil {
		return DashboardStats{}, err
	}

	var stats DashboardStats
	counters := []struct {
		model interface{}
		dest  *int64
		name  string
	}{
		{&models.Employee{}, &stats.Employees, "employees"},
		{&models.Department{}, &stats.Departments, "departments"},
		{&models.Task{}, &stats.Tasks, "tasks"},
		{&models.LeaveRequest{}, &stats.LeaveRequests, "leave requests"},
		{&models.ManagerAssignment{}, &stats.Managers, "managers"},
		{&models.Role{}, &stats.Roles, "roles"},
		{&models.Announcement{}, &stats.Announcements, "announcements"},
		{&models.Presence{}, &stats.Presences, "presences"},
	}
	for _, counter := range counters {
		if err := s.db.WithContext(ctx).Model(counter.model).Count(counter.dest).Error; err != nil {
			return DashboardStats{}, fmt.Errorf("count %s: %w", counter.name, err)
		}
	}
	return stats, nil
}
