package handler

import (
	"net/http"

	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/port"
	"github.com/vidranorte/vitrine-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Conteúdo público — landing, portfólio, blog
//
// Read endpoints go through the page cache so a burst of visitors does
// not turn into a burst of Supabase reads. GET /api/revalidate drops the
// cached entry for a path, mirroring the on-demand revalidation the
// dashboard triggers after a write.
// ============================================================

func landingHandler(svc *service.ContentService, pageCache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/landing")
		defer span.End()

		if cached, ok := pageCache.Get("/v1/landing"); ok {
			metrics.IncrCacheHit("page")
			writeJSON(w, http.StatusOK, cached)
			return
		}
		metrics.IncrCacheMiss("page")

		landing := svc.GetLanding(ctx)
		pageCache.Set("/v1/landing", landing)
		writeJSON(w, http.StatusOK, landing)
	}
}

func heroHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/hero")
		defer span.End()

		// Hero never fails: a fetch problem serves the fixed fallback set.
		writeJSON(w, http.StatusOK, svc.GetHero(ctx))
	}
}

func backgroundsHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/backgrounds")
		defer span.End()

		backgrounds, err := svc.ListBackgrounds(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, backgrounds)
	}
}

func listPortfolioHandler(svc *service.ContentService, pageCache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/portfolio")
		defer span.End()

		if cached, ok := pageCache.Get("/v1/portfolio"); ok {
			metrics.IncrCacheHit("page")
			writeJSON(w, http.StatusOK, cached)
			return
		}
		metrics.IncrCacheMiss("page")

		items, err := svc.ListPortfolio(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		pageCache.Set("/v1/portfolio", items)
		writeJSON(w, http.StatusOK, items)
	}
}

func listBlogHandler(svc *service.ContentService, pageCache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/blog")
		defer span.End()

		if cached, ok := pageCache.Get("/v1/blog"); ok {
			metrics.IncrCacheHit("page")
			writeJSON(w, http.StatusOK, cached)
			return
		}
		metrics.IncrCacheMiss("page")

		posts, err := svc.ListBlog(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		pageCache.Set("/v1/blog", posts)
		writeJSON(w, http.StatusOK, posts)
	}
}
