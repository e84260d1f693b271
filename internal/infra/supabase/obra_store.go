package supabase

import (
	"context"
	"net/url"

	"github.com/vidranorte/vitrine-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// ObraStore implementation — work orders via PostgREST
// ============================================================

// GetObraByTitulo resolves the public order number to at most one record.
// (nil, nil) when nothing matches — callers decide whether that is an error.
func (c *Client) GetObraByTitulo(ctx context.Context, titulo string) (*domain.Obra, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetObraByTitulo")
	defer span.End()
	span.SetAttributes(attribute.String("obra.titulo", titulo))

	var obra *domain.Obra
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "obras?titulo=eq."+url.QueryEscape(titulo)+"&limit=1")
		if err != nil {
			return err
		}
		obra, err = firstRow[domain.Obra](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/obras", Err: err}
	}
	return obra, nil
}

// ListObras returns all work orders for the dashboard, newest first.
func (c *Client) ListObras(ctx context.Context) ([]domain.Obra, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListObras")
	defer span.End()

	var obras []domain.Obra
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "obras?order=created_at.desc")
		if err != nil {
			return err
		}
		obras, err = decodeRows[domain.Obra](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/obras", Err: err}
	}
	return obras, nil
}

func (c *Client) CreateObra(ctx context.Context, obra *domain.Obra) (*domain.Obra, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateObra")
	defer span.End()

	body, err := c.doPost(ctx, "obras", obra, "")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/obras", Err: err}
	}
	created, err := firstRow[domain.Obra](body)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return obra, nil
	}
	return created, nil
}

// UpdateObra patches a record by opaque id. These are the writes the
// realtime subscription on the detail page observes.
func (c *Client) UpdateObra(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateObra")
	defer span.End()
	span.SetAttributes(attribute.String("obra.id", id))

	if err := c.doPatch(ctx, "obras?id=eq."+url.QueryEscape(id), updates); err != nil {
		return &domain.ErrExternalService{Service: "supabase/obras", Err: err}
	}
	return nil
}

func (c *Client) DeleteObra(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteObra")
	defer span.End()

	if err := c.doDelete(ctx, "obras?id=eq."+url.QueryEscape(id)); err != nil {
		return &domain.ErrExternalService{Service: "supabase/obras", Err: err}
	}
	return nil
}
