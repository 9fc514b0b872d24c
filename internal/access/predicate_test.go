package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestBuildPredicateAdmin(t *testing.T) {
	pred, err := BuildPredicate(TierAdmin, Principal{UserID: 1}, KindLeaveRequest)
	assert.NoError(t, err)
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(99))}))
	assert.True(t, pred.Allows(Resource{}))
}

func TestBuildPredicateManagerWithoutDepartment(t *testing.T) {
	p := Principal{UserID: 2, EmployeeID: ptr(uint(7))}

	pred, err := BuildPredicate(TierManager, p, KindEmployee)
	assert.ErrorIs(t, err, ErrNoDepartment)
	assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(7))}))
	assert.False(t, pred.Allows(Resource{DepartmentID: ptr(uint(1))}))
}

func TestManagerWithoutDepartmentKeepsAnnouncementUnion(t *testing.T) {
	p := Principal{UserID: 2, EmployeeID: ptr(uint(7))}

	pred, err := BuildPredicate(TierManager, p, KindAnnouncement)
	assert.NoError(t, err)
	assert.True(t, pred.Allows(Resource{IsGeneral: true}))
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(7))}))
	assert.True(t, pred.Allows(Resource{CreatorID: ptr(uint(2))}))
	assert.False(t, pred.Allows(Resource{DepartmentID: ptr(uint(1))}))
}

func TestManagerEmployeeListingExcludesSelf(t *testing.T) {
	d1 := uint(1)
	d2 := uint(2)
	manager := Principal{UserID: 10, EmployeeID: ptr(uint(5)), DepartmentID: &d1}

	pred, err := BuildPredicate(TierManager, manager, KindEmployee)
	assert.NoError(t, err)

	// E1, E2 in D1 visible; the manager's own row and D2 rows are not.
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(1)), DepartmentID: &d1}))
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(2)), DepartmentID: &d1}))
	assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(5)), DepartmentID: &d1}))
	assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(3)), DepartmentID: &d2}))
}

func TestManagerOwnerAuthoredUnion(t *testing.T) {
	d1 := uint(1)
	manager := Principal{UserID: 10, EmployeeID: ptr(uint(5)), DepartmentID: &d1}

	pred, err := BuildPredicate(TierManager, manager, KindTask)
	assert.NoError(t, err)

	// Department scope or own authorship; neither means no access.
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(8)), DepartmentID: &d1}))
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(9)), DepartmentID: ptr(uint(2)), CreatorID: ptr(uint(10))}))
	assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(9)), DepartmentID: ptr(uint(2)), CreatorID: ptr(uint(11))}))
}

func TestManagerPersonalResourcesNoCreatorLeg(t *testing.T) {
	d1 := uint(1)
	manager := Principal{UserID: 10, EmployeeID: ptr(uint(5)), DepartmentID: &d1}

	pred, err := BuildPredicate(TierManager, manager, KindLeaveRequest)
	assert.NoError(t, err)
	assert.Nil(t, pred.CreatorUserID)
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(8)), DepartmentID: &d1}))
	assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(9)), DepartmentID: ptr(uint(2))}))
}

func TestEmployeeStrictOwnership(t *testing.T) {
	d1 := uint(1)
	emp := Principal{UserID: 20, EmployeeID: ptr(uint(4)), DepartmentID: &d1}

	for _, kind := range []Kind{KindTask, KindPresence, KindLeaveRequest} {
		pred, err := BuildPredicate(TierEmployee, emp, kind)
		assert.NoError(t, err)
		assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(4))}))
		// No department fallback for personally-owned resources.
		assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(6)), DepartmentID: &d1}))
	}
}

func TestEmployeeAnnouncementVisibilityUnion(t *testing.T) {
	d1 := uint(1)
	d2 := uint(2)
	e1 := Principal{UserID: 20, EmployeeID: ptr(uint(100)), DepartmentID: &d1}

	pred, err := BuildPredicate(TierEmployee, e1, KindAnnouncement)
	assert.NoError(t, err)

	a1 := Resource{IsGeneral: true}
	a2 := Resource{DepartmentID: &d1}
	a3 := Resource{DepartmentID: &d2}
	a4 := Resource{EmployeeID: ptr(uint(100))}

	assert.True(t, pred.Allows(a1))
	assert.True(t, pred.Allows(a2))
	assert.False(t, pred.Allows(a3))
	assert.True(t, pred.Allows(a4))
}

func TestEmployeeWithoutDepartmentSkipsDepartmentLeg(t *testing.T) {
	emp := Principal{UserID: 20, EmployeeID: ptr(uint(4))}

	pred, err := BuildPredicate(TierEmployee, emp, KindAnnouncement)
	assert.NoError(t, err)
	assert.True(t, pred.Allows(Resource{IsGeneral: true}))
	assert.True(t, pred.Allows(Resource{EmployeeID: ptr(uint(4))}))
	assert.False(t, pred.Allows(Resource{DepartmentID: ptr(uint(1))}))
}

func TestUnauthenticatedScope(t *testing.T) {
	pred, err := BuildPredicate(TierUnauthenticated, Principal{}, KindAnnouncement)
	assert.NoError(t, err)
	assert.True(t, pred.Allows(Resource{IsGeneral: true}))
	assert.False(t, pred.Allows(Resource{DepartmentID: ptr(uint(1))}))

	pred, err = BuildPredicate(TierUnauthenticated, Principal{}, KindPresence)
	assert.NoError(t, err)
	assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(1))}))
}

func TestEmployeeTierWithoutEmployeeLinkage(t *testing.T) {
	pred, err := BuildPredicate(TierEmployee, Principal{UserID: 3}, KindTask)
	assert.NoError(t, err)
	assert.True(t, pred.None)
	assert.False(t, pred.Allows(Resource{EmployeeID: ptr(uint(1))}))
}

func TestNormalizeTargeting(t *testing.T) {
	empID := uint(4)
	deptID := uint(2)

	tests := []struct {
		name string
		in   Targeting
		want Targeting
	}{
		{
			name: "general wins and clears both targets",
			in:   Targeting{IsGeneral: true, EmployeeID: &empID, DepartmentID: &deptID},
			want: Targeting{IsGeneral: true},
		},
		{
			name: "employee target wins over department",
			in:   Targeting{EmployeeID: &empID, DepartmentID: &deptID},
			want: Targeting{EmployeeID: &empID},
		},
		{
			name: "department target stands alone",
			in:   Targeting{DepartmentID: &deptID},
			want: Targeting{DepartmentID: &deptID},
		},
		{
			name: "nothing set defaults to general",
			in:   Targeting{},
			want: Targeting{IsGeneral: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTargeting(tt.in)
			assert.Equal(t, tt.want, got)

			// At most one targeting mode survives normalization.
			modes := 0
			if got.IsGeneral {
				modes++
			}
			if got.EmployeeID != nil {
				modes++
			}
			if got.DepartmentID != nil {
				modes++
			}
			assert.Equal(t, 1, modes)
		})
	}
}
