package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

// ============================================================
// ContentStore implementation — site content via PostgREST
// ============================================================

// ListPortfolio returns active portfolio items. With pinnedOnly the landing
// filter applies: fixado=true, ordered by (ordem asc, created_at desc).
func (c *Client) ListPortfolio(ctx context.Context, limit int, pinnedOnly bool) ([]domain.PortfolioItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPortfolio")
	defer span.End()

	path := "portfolio?ativo=eq.true&order=ordem.asc,created_at.desc"
	if pinnedOnly {
		path += "&fixado=eq.true"
	}
	if limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}

	var items []domain.PortfolioItem
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}
		items, err = decodeRows[domain.PortfolioItem](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/portfolio", Err: err}
	}
	return items, nil
}

// ListBlogPosts returns active posts ordered by (fixado desc, created_at desc).
func (c *Client) ListBlogPosts(ctx context.Context, limit int) ([]domain.BlogPost, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBlogPosts")
	defer span.End()

	path := "blog_posts?ativo=eq.true&order=fixado.desc,created_at.desc"
	if limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}

	var posts []domain.BlogPost
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}
		posts, err = decodeRows[domain.BlogPost](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/blog", Err: err}
	}
	return posts, nil
}

// ListHeroImages returns active hero slides ordered by the explicit ordem
// field. The service layer substitutes the fallback set on error or empty.
func (c *Client) ListHeroImages(ctx context.Context) ([]domain.HeroImage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListHeroImages")
	defer span.End()

	var images []domain.HeroImage
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "hero_images?ativo=eq.true&order=ordem.asc")
		if err != nil {
			return err
		}
		images, err = decodeRows[domain.HeroImage](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/hero_images", Err: err}
	}
	return images, nil
}

// GetActiveHeroButton returns the single active call-to-action, or nil when
// none is configured.
func (c *Client) GetActiveHeroButton(ctx context.Context) (*domain.HeroButton, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetActiveHeroButton")
	defer span.End()

	var button *domain.HeroButton
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "hero_buttons?ativo=eq.true&limit=1")
		if err != nil {
			return err
		}
		button, err = firstRow[domain.HeroButton](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/hero_buttons", Err: err}
	}
	return button, nil
}

// ListBackgrounds returns the active cross-fade images in order.
func (c *Client) ListBackgrounds(ctx context.Context) ([]domain.BackgroundImage, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBackgrounds")
	defer span.End()

	var images []domain.BackgroundImage
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "background_images?ativo=eq.true&order=ordem.asc")
		if err != nil {
			return err
		}
		images, err = decodeRows[domain.BackgroundImage](body)
		return err
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/backgrounds", Err: err}
	}
	return images, nil
}

// --- Dashboard writes ---

func (c *Client) CreatePortfolioItem(ctx context.Context, item *domain.PortfolioItem) (*domain.PortfolioItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreatePortfolioItem")
	defer span.End()

	body, err := c.doPost(ctx, "portfolio", item, "")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/portfolio", Err: err}
	}
	created, err := firstRow[domain.PortfolioItem](body)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return item, nil
	}
	return created, nil
}

func (c *Client) UpdatePortfolioItem(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePortfolioItem")
	defer span.End()

	if err := c.doPatch(ctx, "portfolio?id=eq."+url.QueryEscape(id), updates); err != nil {
		return &domain.ErrExternalService{Service: "supabase/portfolio", Err: err}
	}
	return nil
}

func (c *Client) DeletePortfolioItem(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeletePortfolioItem")
	defer span.End()

	if err := c.doDelete(ctx, "portfolio?id=eq."+url.QueryEscape(id)); err != nil {
		return &domain.ErrExternalService{Service: "supabase/portfolio", Err: err}
	}
	return nil
}

func (c *Client) CreateBlogPost(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBlogPost")
	defer span.End()

	body, err := c.doPost(ctx, "blog_posts", post, "")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/blog", Err: err}
	}
	created, err := firstRow[domain.BlogPost](body)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return post, nil
	}
	return created, nil
}

func (c *Client) UpdateBlogPost(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBlogPost")
	defer span.End()

	if err := c.doPatch(ctx, "blog_posts?id=eq."+url.QueryEscape(id), updates); err != nil {
		return &domain.ErrExternalService{Service: "supabase/blog", Err: err}
	}
	return nil
}

func (c *Client) DeleteBlogPost(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteBlogPost")
	defer span.End()

	if err := c.doDelete(ctx, "blog_posts?id=eq."+url.QueryEscape(id)); err != nil {
		return &domain.ErrExternalService{Service: "supabase/blog", Err: err}
	}
	return nil
}
