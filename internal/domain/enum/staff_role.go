package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StaffRole determines what a staff member may do
type StaffRole string

const (
	StaffRoleAdmin   StaffRole = "admin"
	StaffRoleManager StaffRole = "manager"
	StaffRoleCashier StaffRole = "cashier"
)

// Permission names checked by the HTTP layer
const (
	PermSell          = "sell"
	PermRefund        = "refund"
	PermManageCatalog = "manage-catalog"
	PermManageConfig  = "manage-config"
	PermManageStaff   = "manage-staff"
	PermViewReports   = "view-reports"
	PermTrackTime     = "track-time"
)

var rolePermissions = map[StaffRole][]string{
	StaffRoleAdmin: {
		PermSell, PermRefund, PermManageCatalog, PermManageConfig,
		PermManageStaff, PermViewReports, PermTrackTime,
	},
	StaffRoleManager: {
		PermSell, PermRefund, PermManageCatalog, PermViewReports, PermTrackTime,
	},
	StaffRoleCashier: {
		PermSell, PermTrackTime,
	},
}

// IsPermission reports whether p is a known permission name
func IsPermission(p string) bool {
	for _, known := range rolePermissions[StaffRoleAdmin] {
		if known == p {
			return true
		}
	}
	return false
}

func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether r is a known role
func (r StaffRole) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns a copy of the permissions granted to the role
func (r StaffRole) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

func (r *StaffRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := StaffRole(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown staff role %q", str)
	}
	*r = v
	return nil
}

func (r StaffRole) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *StaffRole) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*r = StaffRole(v)
	case []byte:
		*r = StaffRole(string(v))
	case nil:
		*r = StaffRoleCashier
	}
	return nil
}
