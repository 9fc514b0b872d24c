package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/access"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestAnnouncementCanMutate(t *testing.T) {
	svc := &AnnouncementService{}

	managerPred := access.Predicate{
		Kind:           access.KindAnnouncement,
		DepartmentID:   uintPtr(2),
		SelfEmployeeID: uintPtr(10),
		CreatorUserID:  uintPtr(5),
	}

	tests := []struct {
		name         string
		predicate    access.Predicate
		announcement models.Announcement
		want         bool
	}{
		{
			name:         "admin mutates anything",
			predicate:    access.Predicate{All: true},
			announcement: models.Announcement{IsGeneral: true},
			want:         true,
		},
		{
			name:         "manager mutates own creation outside department",
			predicate:    managerPred,
			announcement: models.Announcement{CreatorID: uintPtr(5), DepartmentID: uintPtr(9)},
			want:         true,
		},
		{
			name:         "manager mutates department-targeted announcement by someone else",
			predicate:    managerPred,
			announcement: models.Announcement{CreatorID: uintPtr(99), DepartmentID: uintPtr(2)},
			want:         true,
		},
		{
			name:         "broadcast by another author is read-only",
			predicate:    managerPred,
			announcement: models.Announcement{CreatorID: uintPtr(99), IsGeneral: true},
			want:         false,
		},
		{
			name:         "other department stays out of reach",
			predicate:    managerPred,
			announcement: models.Announcement{CreatorID: uintPtr(99), DepartmentID: uintPtr(3)},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.canMutate(tt.predicate, tt.announcement))
		})
	}
}
