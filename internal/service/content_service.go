package service

import (
	"context"
	"time"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var contentTracer = otel.Tracer("service/content")

// landingPreviewLimit caps the landing page's portfolio and blog previews.
const landingPreviewLimit = 3

// fallbackHeroImages is the fixed substitute slide set served when the
// hero fetch fails or comes back empty. Exactly three, matching the static
// assets shipped with the site.
var fallbackHeroImages = []domain.HeroImage{
	{ID: "fallback-1", URL: "/static/hero/fachada-vidro.jpg", Alt: "Fachada em vidro temperado", Ordem: 1, Ativo: true},
	{ID: "fallback-2", URL: "/static/hero/esquadria-aluminio.jpg", Alt: "Esquadrias de alumínio sob medida", Ordem: 2, Ativo: true},
	{ID: "fallback-3", URL: "/static/hero/box-banheiro.jpg", Alt: "Box de banheiro instalado", Ordem: 3, Ativo: true},
}

// fallbackHeroButton is the substitute call-to-action.
var fallbackHeroButton = domain.HeroButton{
	ID:    "fallback",
	Texto: "Solicite um orçamento",
	Link:  "/atendimento",
	Ativo: true,
}

// ContentService serves the public site content with the fallback
// contracts the landing page relies on.
type ContentService struct {
	store   port.ContentStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewContentService creates the content service.
func NewContentService(store port.ContentStore, metrics *observability.Metrics, logger *zap.Logger) *ContentService {
	return &ContentService{store: store, metrics: metrics, logger: logger}
}

// GetHero returns the carousel payload. On fetch error or an empty result
// the hardcoded fallback set takes over — the landing page always has
// slides to show. Same rule, independently, for the call-to-action button.
func (s *ContentService) GetHero(ctx context.Context) domain.Hero {
	ctx, span := contentTracer.Start(ctx, "ContentService.GetHero")
	defer span.End()

	hero := domain.Hero{}

	images, err := s.store.ListHeroImages(ctx)
	if err != nil || len(images) == 0 {
		if err != nil {
			s.logger.Error("hero images fetch failed, serving fallback", zap.Error(err))
			s.metrics.IncrExternalError("hero_images")
		}
		s.metrics.IncrFallback("hero_images")
		hero.Images = fallbackHeroImages
		hero.Fallback = true
	} else {
		hero.Images = images
	}

	button, err := s.store.GetActiveHeroButton(ctx)
	if err != nil || button == nil {
		if err != nil {
			s.logger.Error("hero button fetch failed, serving fallback", zap.Error(err))
			s.metrics.IncrExternalError("hero_buttons")
		}
		s.metrics.IncrFallback("hero_button")
		hero.Button = fallbackHeroButton
	} else {
		hero.Button = *button
	}

	return hero
}

// GetPortfolioPreview returns the landing selection: active+pinned, ordered
// by (ordem asc, created_at desc), at most three.
func (s *ContentService) GetPortfolioPreview(ctx context.Context) ([]domain.PortfolioItem, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.GetPortfolioPreview")
	defer span.End()

	return s.store.ListPortfolio(ctx, landingPreviewLimit, true)
}

// ListPortfolio returns the full active portfolio for the /historia page.
func (s *ContentService) ListPortfolio(ctx context.Context) ([]domain.PortfolioItem, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.ListPortfolio")
	defer span.End()

	return s.store.ListPortfolio(ctx, 0, false)
}

// GetBlogPreview returns the landing selection: active posts ordered by
// (fixado desc, created_at desc), at most three.
func (s *ContentService) GetBlogPreview(ctx context.Context) ([]domain.BlogPost, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.GetBlogPreview")
	defer span.End()

	return s.store.ListBlogPosts(ctx, landingPreviewLimit)
}

// ListBlog returns all active posts for the /blog page.
func (s *ContentService) ListBlog(ctx context.Context) ([]domain.BlogPost, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.ListBlog")
	defer span.End()

	return s.store.ListBlogPosts(ctx, 0)
}

// ListBackgrounds returns the cross-fade image list. Empty is a valid
// answer: the page simply renders no background cycle.
func (s *ContentService) ListBackgrounds(ctx context.Context) ([]domain.BackgroundImage, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.ListBackgrounds")
	defer span.End()

	return s.store.ListBackgrounds(ctx)
}

// GetLanding aggregates everything the landing page needs in one response,
// fetching the independent sections concurrently. Hero never fails (it
// falls back); portfolio/blog/background errors degrade their section to
// empty rather than failing the whole page.
func (s *ContentService) GetLanding(ctx context.Context) domain.Landing {
	ctx, span := contentTracer.Start(ctx, "ContentService.GetLanding")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("landing", time.Since(start)) }()

	var landing domain.Landing

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		landing.Hero = s.GetHero(gCtx)
		return nil
	})
	g.Go(func() error {
		items, err := s.store.ListBackgrounds(gCtx)
		if err != nil {
			s.logger.Error("backgrounds fetch failed", zap.Error(err))
			s.metrics.IncrExternalError("backgrounds")
			return nil
		}
		landing.Backgrounds = items
		return nil
	})
	g.Go(func() error {
		items, err := s.store.ListPortfolio(gCtx, landingPreviewLimit, true)
		if err != nil {
			s.logger.Error("portfolio fetch failed", zap.Error(err))
			s.metrics.IncrExternalError("portfolio")
			return nil
		}
		landing.Portfolio = items
		return nil
	})
	g.Go(func() error {
		posts, err := s.store.ListBlogPosts(gCtx, landingPreviewLimit)
		if err != nil {
			s.logger.Error("blog fetch failed", zap.Error(err))
			s.metrics.IncrExternalError("blog")
			return nil
		}
		landing.Blog = posts
		return nil
	})

	_ = g.Wait()
	return landing
}

// --- Dashboard writes (thin passthroughs, kept on the service so the
// handler layer only ever sees services) ---

func (s *ContentService) CreatePortfolioItem(ctx context.Context, item *domain.PortfolioItem) (*domain.PortfolioItem, error) {
	return s.store.CreatePortfolioItem(ctx, item)
}

func (s *ContentService) UpdatePortfolioItem(ctx context.Context, id string, updates map[string]any) error {
	return s.store.UpdatePortfolioItem(ctx, id, updates)
}

func (s *ContentService) DeletePortfolioItem(ctx context.Context, id string) error {
	return s.store.DeletePortfolioItem(ctx, id)
}

func (s *ContentService) CreateBlogPost(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error) {
	return s.store.CreateBlogPost(ctx, post)
}

func (s *ContentService) UpdateBlogPost(ctx context.Context, id string, updates map[string]any) error {
	return s.store.UpdateBlogPost(ctx, id, updates)
}

func (s *ContentService) DeleteBlogPost(ctx context.Context, id string) error {
	return s.store.DeleteBlogPost(ctx, id)
}
