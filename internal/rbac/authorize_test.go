package rbac

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeInactiveAlwaysDenied(t *testing.T) {
	for _, role := range Roles() {
		for _, perm := range Permissions() {
			subject := Subject{Role: role, VenueID: "V1", IsActive: false}
			d, err := Authorize(subject, perm, "V1")
			require.NoError(t, err)
			assert.Equal(t, Deny(DenyInactive), d, "%s/%s", role, perm)
		}
	}
}

func TestAuthorizeWrongTenantAlwaysDenied(t *testing.T) {
	for _, role := range Roles() {
		for _, perm := range Permissions() {
			subject := Subject{Role: role, VenueID: "V1", IsActive: true}
			d, err := Authorize(subject, perm, "V2")
			require.NoError(t, err)
			assert.Equal(t, Deny(DenyWrongTenant), d, "%s/%s", role, perm)
		}
	}
}

func TestAuthorizeEmptyTargetVenue(t *testing.T) {
	d, err := Authorize(Subject{Role: RoleOwner, VenueID: "", IsActive: true}, PermManageStaff, "")
	require.NoError(t, err)
	assert.Equal(t, Deny(DenyWrongTenant), d)
}

func TestAuthorizeOwnerAllowedEverything(t *testing.T) {
	subject := Subject{Role: RoleOwner, VenueID: "V1", IsActive: true}
	for _, perm := range Permissions() {
		d, err := Authorize(subject, perm, "V1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, perm)
	}
}

func TestAuthorizeOpsStaffRestricted(t *testing.T) {
	subject := Subject{Role: RoleOpsStaff, VenueID: "V1", IsActive: true}
	for _, perm := range []Permission{PermManageSettings, PermManageStaff, PermViewFinancials} {
		d, err := Authorize(subject, perm, "V1")
		require.NoError(t, err)
		assert.Equal(t, Deny(DenyInsufficientPermission), d, perm)
	}
}

func TestAuthorizeScenarios(t *testing.T) {
	tableManager := Subject{Role: RoleTableManager, VenueID: "V1", IsActive: true}
	inactiveSecurity := Subject{Role: RoleSecurity, VenueID: "V1", IsActive: false}

	cases := []struct {
		name    string
		subject Subject
		perm    Permission
		venue   string
		want    Decision
	}{
		{"table manager manages tables", tableManager, PermManageTables, "V1", Allow()},
		{"table manager cannot view financials", tableManager, PermViewFinancials, "V1", Deny(DenyInsufficientPermission)},
		{"table manager other venue", tableManager, PermManageTables, "V2", Deny(DenyWrongTenant)},
		{"table manager other venue financials", tableManager, PermViewFinancials, "V2", Deny(DenyWrongTenant)},
		{"inactive security", inactiveSecurity, PermScanEntry, "V1", Deny(DenyInactive)},
		{"inactive security other venue", inactiveSecurity, PermScanEntry, "V2", Deny(DenyInactive)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Authorize(tc.subject, tc.perm, tc.venue)
			require.NoError(t, err)
			assert.Equal(t, tc.want, d)
		})
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	subject := Subject{Role: Role("SUPERVISOR"), VenueID: "V1", IsActive: true}
	d, err := Authorize(subject, PermViewGuestList, "V1")
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.False(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

func TestAuthorizeUnknownRoleShortCircuitedByTenantChecks(t *testing.T) {
	d, err := Authorize(Subject{Role: Role("SUPERVISOR"), VenueID: "V1"}, PermViewGuestList, "V1")
	require.NoError(t, err)
	assert.Equal(t, Deny(DenyInactive), d)

	d, err = Authorize(Subject{Role: Role("SUPERVISOR"), VenueID: "V1", IsActive: true}, PermViewGuestList, "V2")
	require.NoError(t, err)
	assert.Equal(t, Deny(DenyWrongTenant), d)
}

func TestAuthorizeConcurrentCallers(t *testing.T) {
	subject := Subject{Role: RoleFloorManager, VenueID: "V1", IsActive: true}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, perm := range Permissions() {
				_, err := Authorize(subject, perm, "V1")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "ALLOW", Allow().String())
	assert.Equal(t, "DENY(WRONG_TENANT)", Deny(DenyWrongTenant).String())
}
