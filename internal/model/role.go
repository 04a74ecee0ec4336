package model

import "encoding/json"

// UserRole is an access role granted to a console account
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleConcerts    UserRole = "concerts"
	RoleParking     UserRole = "parking"
	RoleITTickets   UserRole = "it_tickets"
	RoleITAdmin     UserRole = "it_admin"
	RoleITInventory UserRole = "it_inventory"
	RoleInfo        UserRole = "info"
	RoleBuh         UserRole = "buh"
	RoleSecurity    UserRole = "security"
)

// AdminLogin is the built-in account that can never be locked out
const AdminLogin = "admin"

// RoleDescriptor describes an assignable role for the user management screen
type RoleDescriptor struct {
	Role        UserRole `json:"role"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
}

// RoleCatalog lists every assignable role in display order
var RoleCatalog = []RoleDescriptor{
	{RoleAdmin, "Администратор", "Full access to every section and settings"},
	{RoleConcerts, "События", "Read access to the concert calendar and reports"},
	{RoleParking, "Парковка", "Parking registry and the watchman post"},
	{RoleITTickets, "IT: заявки", "Create and follow helpdesk tickets"},
	{RoleITAdmin, "IT: администратор", "Execute tickets and manage inventory"},
	{RoleITInventory, "IT: инвентарь", "Manage the equipment inventory"},
	{RoleInfo, "Инфоцентр", "Knowledge base editing"},
	{RoleBuh, "Бухгалтерия", "Accounting staff"},
	{RoleSecurity, "Охрана", "Watchman post"},
}

// ValidRole reports whether r is one of the known roles
func ValidRole(r UserRole) bool {
	for _, d := range RoleCatalog {
		if d.Role == r {
			return true
		}
	}
	return false
}

// RoleSet is a user's role list. Decoding is lenient: a non-array value
// yields nil and non-string elements are skipped, so a malformed record
// never fails the whole registry read.
type RoleSet []UserRole

func (rs *RoleSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*rs = nil
		return nil
	}
	out := make(RoleSet, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err != nil || string(item) == "null" {
			continue
		}
		out = append(out, UserRole(s))
	}
	*rs = out
	return nil
}
