package rbac

// DenyReason explains why a decision was negative.
type DenyReason string

const (
	DenyInactive               DenyReason = "INACTIVE"
	DenyWrongTenant            DenyReason = "WRONG_TENANT"
	DenyInsufficientPermission DenyReason = "INSUFFICIENT_PERMISSION"
)

// Decision is the outcome of an access check. The zero value denies without a reason.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow returns a positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a negative decision carrying reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

func (d Decision) String() string {
	if d.Allowed {
		return "ALLOW"
	}
	return "DENY(" + string(d.Reason) + ")"
}

// Subject is the resolved staff profile snapshot an access check runs against.
type Subject struct {
	Role     Role
	VenueID  string
	IsActive bool
}

// CheckAccess applies the activity and tenant-boundary rules without consulting
// the permission table.
func CheckAccess(subject Subject, targetVenueID string) Decision {
	if !subject.IsActive {
		return Deny(DenyInactive)
	}
	if targetVenueID == "" || subject.VenueID != targetVenueID {
		return Deny(DenyWrongTenant)
	}
	return Allow()
}

// Authorize decides whether subject may exercise perm on targetVenueID.
//
// Inactive and cross-tenant subjects are rejected before the role is looked up,
// so neither learns what the role would otherwise carry. A role outside the
// enumeration is returned as an error wrapping ErrUnknownRole, never as a decision.
func Authorize(subject Subject, perm Permission, targetVenueID string) (Decision, error) {
	if d := CheckAccess(subject, targetVenueID); !d.Allowed {
		return d, nil
	}
	ok, err := HasPermission(subject.Role, perm)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return Deny(DenyInsufficientPermission), nil
	}
	return Allow(), nil
}
