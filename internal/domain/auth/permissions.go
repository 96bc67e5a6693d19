package auth

const (
	RoleEmployee       = "employee"
	RoleManager        = "manager"
	RoleHRSpecialist   = "hr_specialist"
	RoleCEO            = "ceo"
	RoleFinanceManager = "finance_manager"
	RoleAdmin          = "admin"
)

const (
	PermEmployeesRead     = "core.employees.read"
	PermEmployeesWrite    = "core.employees.write"
	PermDepartmentsRead   = "core.departments.read"
	PermDepartmentsWrite  = "core.departments.write"
	PermReportsRead       = "reports.read"
	PermReportsWrite      = "reports.write"
	PermLeaveRead         = "leave.read"
	PermLeaveWrite        = "leave.write"
	PermLeaveApprove      = "leave.approve"
	PermLeaveReadAll      = "leave.read_all"
	PermFinanceRead       = "finance.read"
	PermFinanceWrite      = "finance.write"
	PermFinanceReadAll    = "finance.read_all"
	PermDocumentsRead     = "documents.read"
	PermDocumentsWrite    = "documents.write"
	PermPerformanceRead   = "performance.read"
	PermPerformanceWrite  = "performance.write"
	PermAuditRead         = "audit.read"
	PermSystemAdmin       = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermDepartmentsRead,
	PermDepartmentsWrite,
	PermReportsRead,
	PermReportsWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermLeaveReadAll,
	PermFinanceRead,
	PermFinanceWrite,
	PermFinanceReadAll,
	PermDocumentsRead,
	PermDocumentsWrite,
	PermPerformanceRead,
	PermPerformanceWrite,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermDepartmentsRead,
		PermReportsRead,
		PermReportsWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermFinanceRead,
		PermFinanceWrite,
		PermDocumentsRead,
		PermPerformanceRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermDepartmentsRead,
		PermReportsRead,
		PermReportsWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermFinanceRead,
		PermFinanceWrite,
		PermDocumentsRead,
		PermPerformanceRead,
		PermPerformanceWrite,
	},
	RoleHRSpecialist: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermDepartmentsRead,
		PermDepartmentsWrite,
		PermReportsRead,
		PermReportsWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermLeaveReadAll,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermPerformanceRead,
		PermPerformanceWrite,
	},
	RoleCEO: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermDepartmentsRead,
		PermDepartmentsWrite,
		PermReportsRead,
		PermReportsWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermLeaveReadAll,
		PermFinanceRead,
		PermFinanceReadAll,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermAuditRead,
	},
	RoleFinanceManager: {
		PermEmployeesRead,
		PermDepartmentsRead,
		PermReportsRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermFinanceRead,
		PermFinanceWrite,
		PermFinanceReadAll,
		PermDocumentsRead,
	},
	// Admin holds every grant, including admin.system.
	RoleAdmin: DefaultPermissions,
}

// PrivilegedLeaveRoles see every leave request, matching the HR Specialist
// and CEO groups of the upstream system.
var PrivilegedLeaveRoles = map[string]bool{
	RoleHRSpecialist: true,
	RoleCEO:          true,
	RoleAdmin:        true,
}

// PrivilegedFinanceRoles see every transaction regardless of who recorded it.
var PrivilegedFinanceRoles = map[string]bool{
	RoleFinanceManager: true,
	RoleAdmin:          true,
}
