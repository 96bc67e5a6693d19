package auth

import "testing"

func TestRolePermissionsAreKnown(t *testing.T) {
	known := map[string]bool{}
	for _, perm := range DefaultPermissions {
		known[perm] = true
	}

	for role, perms := range RolePermissions {
		for _, perm := range perms {
			if !known[perm] {
				t.Errorf("role %s references unknown permission %s", role, perm)
			}
		}
	}
}

func TestAdminHoldsEveryPermission(t *testing.T) {
	adminPerms := map[string]bool{}
	for _, perm := range RolePermissions[RoleAdmin] {
		adminPerms[perm] = true
	}
	for _, perm := range DefaultPermissions {
		if !adminPerms[perm] {
			t.Errorf("admin role missing %s", perm)
		}
	}
}

func TestPrivilegedRoleSets(t *testing.T) {
	if !PrivilegedLeaveRoles[RoleHRSpecialist] || !PrivilegedLeaveRoles[RoleCEO] {
		t.Error("hr_specialist and ceo must see all leaves")
	}
	if PrivilegedLeaveRoles[RoleEmployee] {
		t.Error("employee must not see all leaves")
	}
	if !PrivilegedFinanceRoles[RoleFinanceManager] {
		t.Error("finance_manager must see all transactions")
	}
	if PrivilegedFinanceRoles[RoleEmployee] {
		t.Error("employee must not see all transactions")
	}
}

func TestEmployeeCannotApproveLeave(t *testing.T) {
	for _, perm := range RolePermissions[RoleEmployee] {
		if perm == PermLeaveApprove {
			t.Fatal("employee role must not carry leave.approve")
		}
	}
}
