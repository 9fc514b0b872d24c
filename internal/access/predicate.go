package access

import "errors"

// Kind identifies the resource type a predicate is built for.
type Kind int

const (
	KindEmployee Kind = iota
	KindTask
	KindPresence
	KindLeaveRequest
	KindAnnouncement
)

// ownerAuthored reports whether the kind carries a creator reference that
// grants its author scope beyond department boundaries.
func (k Kind) ownerAuthored() bool {
	return k == KindTask || k == KindAnnouncement
}

// ErrNoDepartment is returned when a manager has no assigned department.
// Gateways surface it as a distinct condition rather than an empty list.
var ErrNoDepartment = errors.New("manager has no assigned department")

// Resource is the view of a candidate instance a predicate inspects.
// Gateways fill in whichever fields the kind carries.
type Resource struct {
	EmployeeID   *uint
	DepartmentID *uint
	CreatorID    *uint
	IsGeneral    bool
}

// Predicate is the visibility/mutability filter for one principal and one
// resource kind. Fields are exported so gateways can translate the
// predicate into query filters with the same semantics as Allows.
type Predicate struct {
	Kind Kind

	// All and None short-circuit everything else.
	All  bool
	None bool

	// GeneralOnly restricts announcements to broadcasts (no-scope principals).
	GeneralOnly bool

	// SelfEmployeeID matches resources owned by the principal's employee.
	SelfEmployeeID *uint
	// DepartmentID matches resources belonging to this department.
	DepartmentID *uint
	// CreatorUserID matches owner-authored resources created by the principal.
	CreatorUserID *uint
	// ExcludeEmployeeID removes the principal's own employee row from
	// employee listings (a manager never appears in their own team list).
	ExcludeEmployeeID *uint
}

// BuildPredicate derives the scope filter for the given tier and resource
// kind. It returns ErrNoDepartment for a manager whose employee profile has
// no department, together with an always-false predicate.
func BuildPredicate(tier Tier, p Principal, kind Kind) (Predicate, error) {
	switch tier {
	case TierAdmin:
		return Predicate{Kind: kind, All: true}, nil

	case TierManager:
		if p.DepartmentID == nil {
			if kind == KindAnnouncement {
				// Broadcasts and personal targets stay visible even
				// without a department; only scoped listings surface
				// the missing-department condition.
				pred := Predicate{Kind: kind, SelfEmployeeID: p.EmployeeID}
				userID := p.UserID
				pred.CreatorUserID = &userID
				return pred, nil
			}
			return Predicate{Kind: kind, None: true}, ErrNoDepartment
		}
		pred := Predicate{Kind: kind, DepartmentID: p.DepartmentID}
		if kind.ownerAuthored() {
			userID := p.UserID
			pred.CreatorUserID = &userID
		}
		if kind == KindEmployee && p.EmployeeID != nil {
			pred.ExcludeEmployeeID = p.EmployeeID
		}
		if kind == KindAnnouncement {
			// Managers read announcements through the same union as
			// employees: broadcasts and personal targets stay visible.
			pred.SelfEmployeeID = p.EmployeeID
		}
		return pred, nil

	case TierEmployee:
		if p.EmployeeID == nil {
			return noScopePredicate(kind), nil
		}
		pred := Predicate{Kind: kind, SelfEmployeeID: p.EmployeeID}
		if kind == KindAnnouncement {
			pred.DepartmentID = p.DepartmentID
		}
		return pred, nil

	default:
		return noScopePredicate(kind), nil
	}
}

// noScopePredicate is the filter for principals with no employee linkage:
// broadcasts only for announcements, nothing for personal resources.
func noScopePredicate(kind Kind) Predicate {
	if kind == KindAnnouncement {
		return Predicate{Kind: kind, GeneralOnly: true}
	}
	return Predicate{Kind: kind, None: true}
}

// Allows evaluates the predicate against one candidate resource.
func (p Predicate) Allows(r Resource) bool {
	if p.None {
		return false
	}
	if p.All {
		return true
	}
	if p.GeneralOnly {
		return r.IsGeneral
	}

	if p.Kind == KindAnnouncement && r.IsGeneral {
		return true
	}
	if p.ExcludeEmployeeID != nil && r.EmployeeID != nil && *r.EmployeeID == *p.ExcludeEmployeeID {
		return false
	}
	if p.SelfEmployeeID != nil && r.EmployeeID != nil && *r.EmployeeID == *p.SelfEmployeeID {
		return true
	}
	if p.DepartmentID != nil && r.DepartmentID != nil && *r.DepartmentID == *p.DepartmentID {
		return true
	}
	if p.CreatorUserID != nil && r.CreatorID != nil && *r.CreatorID == *p.CreatorUserID {
		return true
	}
	return false
}
