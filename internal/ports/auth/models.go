package auth

// Role define los roles soportados por el sistema.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStaff        Role = "staff"
	RoleVeterinarian Role = "veterinarian"
	RoleCustomer     Role = "customer"
)

// ParseRole normaliza un rol; desconocido => customer (el menos privilegiado).
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleVeterinarian, RoleCustomer:
		return Role(s)
	default:
		return RoleCustomer
	}
}

// Claims representa la información extraída del token.
// Para callers con rol customer, UserID es a la vez el customer ID.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

// IsStaff agrupa los roles internos de la clínica (admin/staff/veterinario).
func (c Claims) IsStaff() bool {
	return c.Role == RoleAdmin || c.Role == RoleStaff || c.Role == RoleVeterinarian
}

// IsVet cubre a veterinarios y admin (admin puede todo).
func (c Claims) IsVet() bool {
	return c.Role == RoleAdmin || c.Role == RoleVeterinarian
}
