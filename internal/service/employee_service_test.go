package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/access"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

func TestEmployeeViewable(t *testing.T) {
	// A department manager's listing predicate carries a self-exclusion so
	// the manager does not appear among their own reports.
	managerPredicate := access.Predicate{
		Kind:              access.KindEmployee,
		DepartmentID:      uintPtr(1),
		SelfEmployeeID:    uintPtr(5),
		ExcludeEmployeeID: uintPtr(5),
	}

	tests := []struct {
		name      string
		predicate access.Predicate
		employee  models.Employee
		want      bool
	}{
		{
			name:      "manager opens own profile",
			predicate: managerPredicate,
			employee:  models.Employee{ID: 5, DepartmentID: uintPtr(1)},
			want:      true,
		},
		{
			name:      "manager opens a report in the department",
			predicate: managerPredicate,
			employee:  models.Employee{ID: 8, DepartmentID: uintPtr(1)},
			want:      true,
		},
		{
			name:      "manager cannot open another department's employee",
			predicate: managerPredicate,
			employee:  models.Employee{ID: 9, DepartmentID: uintPtr(2)},
			want:      false,
		},
		{
			name:      "admin sees everyone",
			predicate: access.Predicate{Kind: access.KindEmployee, All: true},
			employee:  models.Employee{ID: 9, DepartmentID: uintPtr(2)},
			want:      true,
		},
		{
			name:      "employee is limited to their own record",
			predicate: access.Predicate{Kind: access.KindEmployee, SelfEmployeeID: uintPtr(3)},
			employee:  models.Employee{ID: 4, DepartmentID: uintPtr(1)},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, employeeViewable(tt.predicate, tt.employee))
		})
	}
}

// The predicate handed to the viewability check is taken by value; callers
// keep the exclusion for listing queries.
func TestEmployeeViewableLeavesPredicateIntact(t *testing.T) {
	predicate := access.Predicate{
		Kind:              access.KindEmployee,
		DepartmentID:      uintPtr(1),
		ExcludeEmployeeID: uintPtr(5),
	}

	employeeViewable(predicate, models.Employee{ID: 5, DepartmentID: uintPtr(1)})
	assert.NotNil(t, predicate.ExcludeEmployeeID)
}
