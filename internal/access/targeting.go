package access

// Targeting is the audience selection of an announcement.
type Targeting struct {
	IsGeneral    bool
	EmployeeID   *uint
	DepartmentID *uint
}

// NormalizeTargeting applies the targeting priority rule to possibly
// conflicting inputs: an explicit broadcast wins and clears both targets,
// else an employee target wins over a department target, else the
// department target stands, else the announcement defaults to a broadcast.
// The result always has at most one active targeting mode.
func NormalizeTargeting(in Targeting) Targeting {
	switch {
	case in.IsGeneral:
		return Targeting{IsGeneral: true}
	case in.EmployeeID != nil:
		return Targeting{EmployeeID: in.EmployeeID}
	case in.DepartmentID != nil:
		return Targeting{DepartmentID: in.DepartmentID}
	default:
		return Targeting{IsGeneral: true}
	}
}
