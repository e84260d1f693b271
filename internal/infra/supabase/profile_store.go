package supabase

import (
	"context"
	"fmt"

	"github.com/vidranorte/vitrine-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// ProfileStore implementation — role-specific signup profiles
// ============================================================

// UpsertProfile writes the cliente/arquiteto record keyed by the auth
// user's id. on_conflict=id makes a repeated signup submission overwrite
// the same row instead of duplicating it.
func (c *Client) UpsertProfile(ctx context.Context, role domain.Role, profile *domain.Profile) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertProfile")
	defer span.End()
	span.SetAttributes(
		attribute.String("profile.role", string(role)),
		attribute.String("profile.id", profile.ID),
	)

	table := role.ProfileTable()
	if table == "" {
		return fmt.Errorf("role %q has no profile table", role)
	}

	if _, err := c.doPost(ctx, table, profile, "id"); err != nil {
		return &domain.ErrExternalService{Service: "supabase/" + table, Err: err}
	}
	return nil
}
