package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

// The validation paths below run before any query, so the service needs no
// database as long as the actor carries a preloaded employee profile.
func newLeaveServiceAt(now time.Time) *LeaveService {
	return &LeaveService{
		logger: zap.NewNop(),
		now:    func() time.Time { return now },
	}
}

func leaveActor() models.User {
	return models.User{
		ID:       3,
		Role:     "employee",
		Employee: &models.Employee{ID: 11},
	}
}

func TestCreateLeaveRequestPastStartDate(t *testing.T) {
	today := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc := newLeaveServiceAt(today)

	_, err := svc.Create(context.Background(), leaveActor(), CreateLeaveRequestInput{
		Type:      "vacation",
		StartDate: today.AddDate(0, 0, -1),
		EndDate:   today.AddDate(0, 0, 3),
	})

	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
}

func TestCreateLeaveRequestEndBeforeStart(t *testing.T) {
	today := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc := newLeaveServiceAt(today)

	_, err := svc.Create(context.Background(), leaveActor(), CreateLeaveRequestInput{
		Type:      "vacation",
		StartDate: today.AddDate(0, 0, 5),
		EndDate:   today.AddDate(0, 0, 2),
	})

	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
}

func TestCreateLeaveRequestRequiresType(t *testing.T) {
	today := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc := newLeaveServiceAt(today)

	_, err := svc.Create(context.Background(), leaveActor(), CreateLeaveRequestInput{
		Type:      "  ",
		StartDate: today.AddDate(0, 0, 1),
		EndDate:   today.AddDate(0, 0, 2),
	})

	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
}

func TestLeaveStatusTerminal(t *testing.T) {
	assert.False(t, models.LeaveStatusPending.Terminal())
	assert.True(t, models.LeaveStatusApproved.Terminal())
	assert.True(t, models.LeaveStatusRejected.Terminal())
}

func TestLeaveTransitionGuard(t *testing.T) {
	assert.NoError(t, leaveTransitionGuard(models.LeaveStatusPending))

	for _, status := range []models.LeaveStatus{models.LeaveStatusApproved, models.LeaveStatusRejected} {
		err := leaveTransitionGuard(status)
		assert.Equal(t, apperror.CodeConflict, apperror.GetCode(err), "status %s", status)
	}
}

func TestLeaveDeleteGuard(t *testing.T) {
	assert.NoError(t, leaveDeleteGuard(models.LeaveStatusPending))
	assert.NoError(t, leaveDeleteGuard(models.LeaveStatusRejected))

	err := leaveDeleteGuard(models.LeaveStatusApproved)
	assert.Equal(t, apperror.CodeConflict, apperror.GetCode(err))
}

func TestLeaveTodayIgnoresProcessTimeZone(t *testing.T) {
	zone := time.FixedZone("UTC+13", 13*60*60)
	// Local calendar already shows March 10, but the UTC day is March 9.
	now := time.Date(2026, time.March, 10, 1, 0, 0, 0, zone)

	today := leaveToday(now)
	assert.Equal(t, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), today)
	assert.Equal(t, today, leaveToday(now.UTC()))
}

func TestCreateLeaveRequestAcceptsCurrentUTCDay(t *testing.T) {
	zone := time.FixedZone("UTC+13", 13*60*60)
	now := time.Date(2026, time.March, 10, 1, 0, 0, 0, zone)

	// March 9 is the current UTC day, so it must not be rejected as past.
	start := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	assert.False(t, start.Before(leaveToday(now)))
}
