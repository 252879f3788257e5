package domain

// Role identifies the clinic role attached to an authenticated user.
type Role string

const (
	RoleGuest        Role = "guest"
	RoleReceptionist Role = "receptionist"
	RoleNurse        Role = "nurse"
	RoleDoctor       Role = "doctor"
	RoleAdmin        Role = "admin"
)

func (r Role) String() string { return string(r) }

// IsValid returns true if the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleReceptionist, RoleNurse, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// PrivilegeLevel orders roles from least to most privileged. Used to detect
// role changes that grant strictly higher access.
func (r Role) PrivilegeLevel() int {
	switch r {
	case RoleReceptionist:
		return 1
	case RoleNurse:
		return 2
	case RoleDoctor:
		return 3
	case RoleAdmin:
		return 4
	default:
		return 0
	}
}
