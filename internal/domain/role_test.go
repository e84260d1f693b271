package domain_test

import (
	"testing"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"cliente", "arquiteto", "administrador", "vendedor"} {
		if _, err := domain.ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "admin", "Cliente", "root"} {
		if _, err := domain.ParseRole(invalid); err == nil {
			t.Errorf("ParseRole(%q): expected error, got nil", invalid)
		}
	}
}

func TestRolePostLoginPath(t *testing.T) {
	tests := []struct {
		role domain.Role
		path string
	}{
		{domain.RoleCliente, "/profile"},
		{domain.RoleArquiteto, "/profile"},
		{domain.RoleAdministrador, "/dashboard"},
		{domain.RoleVendedor, "/dashboard"},
	}
	for _, tt := range tests {
		if got := tt.role.PostLoginPath(); got != tt.path {
			t.Errorf("%s: expected %q, got %q", tt.role, tt.path, got)
		}
	}
}

func TestRoleProfileTable(t *testing.T) {
	if got := domain.RoleCliente.ProfileTable(); got != "clientes" {
		t.Errorf("cliente: expected 'clientes', got %q", got)
	}
	if got := domain.RoleArquiteto.ProfileTable(); got != "arquitetos" {
		t.Errorf("arquiteto: expected 'arquitetos', got %q", got)
	}
	if got := domain.RoleAdministrador.ProfileTable(); got != "" {
		t.Errorf("administrador: expected no profile table, got %q", got)
	}
}
