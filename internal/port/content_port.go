package port

import (
	"context"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

// ContentStore is the read/write surface for public site content.
// List operations return the rows already filtered and ordered by the
// backend (ativo/fixado filters, ordem/created_at ordering, limit).
type ContentStore interface {
	ListPortfolio(ctx context.Context, limit int, pinnedOnly bool) ([]domain.PortfolioItem, error)
	ListBlogPosts(ctx context.Context, limit int) ([]domain.BlogPost, error)
	ListHeroImages(ctx context.Context) ([]domain.HeroImage, error)
	GetActiveHeroButton(ctx context.Context) (*domain.HeroButton, error)
	ListBackgrounds(ctx context.Context) ([]domain.BackgroundImage, error)

	CreatePortfolioItem(ctx context.Context, item *domain.PortfolioItem) (*domain.PortfolioItem, error)
	UpdatePortfolioItem(ctx context.Context, id string, updates map[string]any) error
	DeletePortfolioItem(ctx context.Context, id string) error

	CreateBlogPost(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, updates map[string]any) error
	DeleteBlogPost(ctx context.Context, id string) error
}
