// Package rbac resolves venue staff roles into permissions and decides whether
// a staff principal may perform an action on a venue.
//
// The role table is compiled into the binary. Changing a grant means shipping
// a new build, never mutating data.
package rbac

import (
	"errors"
	"fmt"
)

// Role identifies a staff member's position within one venue.
type Role string

const (
	RoleOwner        Role = "OWNER"
	RoleClubManager  Role = "CLUB_MANAGER"
	RoleFloorManager Role = "FLOOR_MANAGER"
	RoleSecurity     Role = "SECURITY"
	RoleTableManager Role = "TABLE_MANAGER"
	RoleOpsStaff     Role = "OPS_STAFF"
)

// Permission is one atomic capability.
type Permission string

const (
	PermViewFinancials Permission = "VIEW_FINANCIALS"
	PermManageStaff    Permission = "MANAGE_STAFF"
	PermManageEvents   Permission = "MANAGE_EVENTS"
	PermEditEventRules Permission = "EDIT_EVENT_RULES"
	PermManageTables   Permission = "MANAGE_TABLES"
	PermViewGuestList  Permission = "VIEW_GUESTLIST"
	PermScanEntry      Permission = "SCAN_ENTRY"
	PermLogIncidents   Permission = "LOG_INCIDENTS"
	PermViewAnalytics  Permission = "VIEW_ANALYTICS"
	PermManageSettings Permission = "MANAGE_SETTINGS"
)

var (
	// ErrUnknownRole signals a role tag outside the fixed enumeration.
	ErrUnknownRole = errors.New("rbac: unknown role")
	// ErrUnknownPermission signals a permission tag outside the fixed enumeration.
	ErrUnknownPermission = errors.New("rbac: unknown permission")
)

var allRoles = []Role{
	RoleOwner,
	RoleClubManager,
	RoleFloorManager,
	RoleSecurity,
	RoleTableManager,
	RoleOpsStaff,
}

var allPermissions = []Permission{
	PermViewFinancials,
	PermManageStaff,
	PermManageEvents,
	PermEditEventRules,
	PermManageTables,
	PermViewGuestList,
	PermScanEntry,
	PermLogIncidents,
	PermViewAnalytics,
	PermManageSettings,
}

var rolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermViewFinancials, PermManageStaff, PermManageEvents, PermEditEventRules,
		PermManageTables, PermViewGuestList, PermScanEntry, PermLogIncidents,
		PermViewAnalytics, PermManageSettings,
	},
	RoleClubManager: {
		PermViewFinancials, PermManageEvents, PermEditEventRules, PermManageTables,
		PermViewGuestList, PermScanEntry, PermLogIncidents, PermViewAnalytics,
	},
	RoleFloorManager: {
		PermManageEvents, PermManageTables, PermViewGuestList, PermScanEntry,
		PermLogIncidents,
	},
	RoleSecurity: {
		PermViewGuestList, PermScanEntry, PermLogIncidents,
	},
	RoleTableManager: {
		PermManageTables, PermViewGuestList,
	},
	RoleOpsStaff: {
		PermViewGuestList,
	},
}

// grants is the membership index over rolePermissions, built once at init and
// only read afterwards.
var grants = func() map[Role]map[Permission]struct{} {
	idx := make(map[Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		idx[role] = set
	}
	return idx
}()

// Roles returns the fixed role enumeration in declaration order.
func Roles() []Role {
	return append([]Role(nil), allRoles...)
}

// Permissions returns the fixed permission enumeration in declaration order.
func Permissions() []Permission {
	return append([]Permission(nil), allPermissions...)
}

// Valid reports whether r is part of the fixed enumeration.
func (r Role) Valid() bool {
	_, ok := grants[r]
	return ok
}

// Valid reports whether p is part of the fixed enumeration.
func (p Permission) Valid() bool {
	for _, known := range allPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// ParseRole validates a role tag coming from storage or a request payload.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}

// ParsePermission validates a permission tag.
func ParsePermission(s string) (Permission, error) {
	perm := Permission(s)
	if !perm.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, s)
	}
	return perm, nil
}

// PermissionsFor returns a copy of the permissions granted to role.
func PermissionsFor(role Role) ([]Permission, error) {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return append([]Permission(nil), perms...), nil
}

// HasPermission reports whether role is granted perm.
func HasPermission(role Role, perm Permission) (bool, error) {
	set, ok := grants[role]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	_, granted := set[perm]
	return granted, nil
}

// Table returns a copy of the full role to permission mapping. Intended for
// menu rendering; authorization must go through Authorize.
func Table() map[Role][]Permission {
	out := make(map[Role][]Permission, len(rolePermissions))
	for role, perms := range rolePermissions {
		out[role] = append([]Permission(nil), perms...)
	}
	return out
}
