package access

import "strings"

// Tier is the resolved authorization level of a principal. Higher values
// are strictly more privileged.
type Tier int

const (
	TierUnauthenticated Tier = iota
	TierEmployee
	TierManager
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierAdmin:
		return "admin"
	case TierManager:
		return "manager"
	case TierEmployee:
		return "employee"
	default:
		return "unauthenticated"
	}
}

// Signals is an explicit snapshot of the three role sources consulted when
// resolving a tier: the raw role string on the user row, the employee↔role
// pivot, and the managers table. Callers collect the snapshot up front so
// resolution itself never touches the datastore.
type Signals struct {
	RawRole              string
	HasEmployee          bool
	HasManagerGrant      bool
	HasManagerAssignment bool
}

// ResolveTier derives the effective tier from the snapshot. The checks are
// a monotonic OR: the order does not change the outcome. Raw role
// comparison is case-insensitive ("Manager" and "manager" are the same
// role). An admin without a linked employee profile is still an admin.
func ResolveTier(s Signals) Tier {
	switch strings.ToLower(strings.TrimSpace(s.RawRole)) {
	case "admin":
		return TierAdmin
	case "manager":
		return TierManager
	}

	if s.HasEmployee && (s.HasManagerGrant || s.HasManagerAssignment) {
		return TierManager
	}
	if s.HasEmployee {
		return TierEmployee
	}
	return TierUnauthenticated
}

// Principal carries the identity facts predicates are built from.
// EmployeeID and DepartmentID are nil when the corresponding link is absent.
type Principal struct {
	UserID       uint
	EmployeeID   *uint
	DepartmentID *uint
}
