package auth

const (
	RoleAttendant = "attendant"
	RoleManager   = "manager"
	RoleOwner     = "owner"
)

const (
	PermStationOperate  = "station.operate"
	PermStationClose    = "station.close"
	PermAccountingRead  = "accounting.read"
	PermAccountingWrite = "accounting.write"
	PermLedgerRead      = "ledger.read"
	PermPayrollWrite    = "payroll.write"
	PermAuditRead       = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleAttendant: {
		PermStationOperate,
	},
	RoleManager: {
		PermStationOperate,
		PermStationClose,
		PermAccountingRead,
		PermAccountingWrite,
		PermLedgerRead,
		PermPayrollWrite,
	},
	RoleOwner: {
		PermStationOperate,
		PermStationClose,
		PermAccountingRead,
		PermAccountingWrite,
		PermLedgerRead,
		PermPayrollWrite,
		PermAuditRead,
	},
}

func HasPermission(role, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}
