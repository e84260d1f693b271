package domain

import "fmt"

// Role is the closed set of account roles. Keeping it a declared type (not
// free-text comparison) makes an unknown role tag a decode-time error
// instead of a silent branch miss.
type Role string

const (
	RoleCliente       Role = "cliente"
	RoleArquiteto     Role = "arquiteto"
	RoleAdministrador Role = "administrador"
	RoleVendedor      Role = "vendedor"
)

// ParseRole validates a role tag coming from the auth backend's user
// metadata.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCliente, RoleArquiteto, RoleAdministrador, RoleVendedor:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Staff reports whether the role may access the dashboard.
func (r Role) Staff() bool {
	return r == RoleAdministrador || r == RoleVendedor
}

// PostLoginPath is the destination a fresh session is redirected to.
func (r Role) PostLoginPath() string {
	if r.Staff() {
		return "/dashboard"
	}
	return "/profile"
}

// ProfileTable is the Supabase table holding the role-specific profile
// record written at signup. Staff accounts are provisioned out of band and
// have no signup profile table.
func (r Role) ProfileTable() string {
	switch r {
	case RoleCliente:
		return "clientes"
	case RoleArquiteto:
		return "arquitetos"
	}
	return ""
}
