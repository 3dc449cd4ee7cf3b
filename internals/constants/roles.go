package constants

import "fmt"

// Role names carried in the JWT "role" claim.
const (
	RoleAdmin      = "admin"   // system administrator
	RoleManager    = "quan_ly" // building manager
	RoleAccountant = "ke_toan" // accountant
	RoleResident   = "cu_dan"  // resident / head of household
)

// Role error message templates
const (
	ErrOnlyStaffCanAccess      = "❌ Only admin, building manager or accountant may access %s."
	ErrOnlyAccountantCanAccess = "❌ Only admin or accountant may access %s."
	ErrOnlyAdminsCanAccess     = "❌ Only admin may access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAccountant(feature string) string {
	return fmt.Sprintf(ErrOnlyAccountantCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleManager,
		RoleAccountant,
		RoleResident,
	}

	// Staff = everyone allowed into /api/a
	StaffRoles = []string{
		RoleAdmin,
		RoleManager,
		RoleAccountant,
	}

	// Money-touching endpoints (payments)
	AccountingRoles = []string{
		RoleAdmin,
		RoleAccountant,
	}
)
