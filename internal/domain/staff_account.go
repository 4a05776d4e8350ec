package domain

import "time"

// Role enumerates console operator roles.
type Role string

const (
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
	RoleSuper  Role = "super"
)

// Valid reports whether the role is one of the known set.
func (r Role) Valid() bool {
	switch r {
	case RoleDriver, RoleAdmin, RoleSuper:
		return true
	}
	return false
}

// AccountStatus represents lifecycle states for a staff account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDisabled AccountStatus = "disabled"
)

// StaffAccount is both the authorization subject resolved by the auth
// gate and, for drivers, a display entity. The id equals the identity
// provider uid minted at provisioning time. Role is immutable once set;
// no update path touches it.
type StaffAccount struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Role      Role          `json:"role"`
	Phone     string        `json:"phone"`
	License   string        `json:"license,omitempty"`
	Vehicle   string        `json:"vehicle,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DriverProfile is the denormalized lookup record kept in the drivers
// collection alongside the staffAccounts document. The join resolver
// reads this collection when decorating task rows.
type DriverProfile struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	License   string        `json:"license,omitempty"`
	Vehicle   string        `json:"vehicle,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
