package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/port"
	"github.com/vidranorte/vitrine-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Dashboard — CRUD da equipe
//
// Every write drops the affected page cache entries so the public site
// picks the change up on the next request instead of waiting the TTL out.
// ============================================================

func invalidatePages(pageCache port.Cache[any], paths ...string) {
	for _, p := range paths {
		pageCache.Delete(p)
	}
}

// --- Portfólio ---

func createPortfolioHandler(svc *service.ContentService, pageCache port.Cache[any], logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/portfolio")
		defer span.End()

		var item domain.PortfolioItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreatePortfolioItem(ctx, &item)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		invalidatePages(pageCache, "/v1/landing", "/v1/portfolio")
		writeJSON(w, http.StatusCreated, created)
	}
}

func updatePortfolioHandler(svc *service.ContentService, pageCache port.Cache[any], logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/dashboard/portfolio/{id}")
		defer span.End()

		var updates map[string]any
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.UpdatePortfolioItem(ctx, chi.URLParam(r, "id"), updates); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		invalidatePages(pageCache, "/v1/landing", "/v1/portfolio")
		w.WriteHeader(http.StatusNoContent)
	}
}

func deletePortfolioHandler(svc *service.ContentService, pageCache port.Cache[any], logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/dashboard/portfolio/{id}")
		defer span.End()

		if err := svc.DeletePortfolioItem(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		invalidatePages(pageCache, "/v1/landing", "/v1/portfolio")
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- Blog ---

func createBlogPostHandler(svc *service.ContentService, pageCache port.Cache[any], logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/blog")
		defer span.End()

		var post domain.BlogPost
		if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateBlogPost(ctx, &post)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		invalidatePages(pageCache, "/v1/landing", "/v1/blog")
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateBlogPostHandler(svc *service.ContentService, pageCache port.Cache[any], logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/dashboard/blog/{id}")
		defer span.End()

		var updates map[string]any
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.UpdateBlogPost(ctx, chi.URLParam(r, "id"), updates); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		invalidatePages(pageCache, "/v1/landing", "/v1/blog")
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteBlogPostHandler(svc *service.ContentService, pageCache port.Cache[any], logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/dashboard/blog/{id}")
		defer span.End()

		if err := svc.DeleteBlogPost(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		invalidatePages(pageCache, "/v1/landing", "/v1/blog")
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- Obras ---

func listObrasHandler(svc *service.ObraService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/obras")
		defer span.End()

		obras, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"obras": obras})
	}
}

func createObraHandler(svc *service.ObraService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/obras")
		defer span.End()

		var obra domain.Obra
		if err := json.NewDecoder(r.Body).Decode(&obra); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.Create(ctx, &obra)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateObraHandler(svc *service.ObraService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/dashboard/obras/{id}")
		defer span.End()

		var updates map[string]any
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.Update(ctx, chi.URLParam(r, "id"), updates); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteObraHandler(svc *service.ObraService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/dashboard/obras/{id}")
		defer span.End()

		if err := svc.Delete(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
