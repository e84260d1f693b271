package handler

import (
	"net/http"
	"time"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/port"

	"go.uber.org/zap"
)

// ============================================================
// Feed simulado + revalidação sob demanda
// ============================================================

// feedEntries is the fixed placeholder payload. There is no real social
// integration behind this endpoint.
var feedEntries = []domain.FeedEntry{
	{ID: "1", Image: "/static/feed/obra-sacada.jpg", URL: "https://instagram.com/vidranorte", Alt: "Sacada envidraçada finalizada"},
	{ID: "2", Image: "/static/feed/box-banheiro.jpg", URL: "https://instagram.com/vidranorte", Alt: "Box de banheiro sob medida"},
	{ID: "3", Image: "/static/feed/guarda-corpo.jpg", URL: "https://instagram.com/vidranorte", Alt: "Guarda-corpo de vidro"},
	{ID: "4", Image: "/static/feed/espelho-sala.jpg", URL: "https://instagram.com/vidranorte", Alt: "Espelho decorativo de sala"},
	{ID: "5", Image: "/static/feed/fachada-loja.jpg", URL: "https://instagram.com/vidranorte", Alt: "Fachada de loja em vidro temperado"},
	{ID: "6", Image: "/static/feed/porta-aluminio.jpg", URL: "https://instagram.com/vidranorte", Alt: "Porta de alumínio instalada"},
}

// GET /api/instagram_feed
// Serves the static feed after a small artificial delay so the frontend's
// loading state stays exercised.
func instagramFeedHandler(delay time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/instagram_feed")
		defer span.End()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}
		writeJSON(w, http.StatusOK, feedEntries)
	}
}

// GET /api/revalidate?path=/v1/portfolio
func revalidateHandler(pageCache port.Cache[any], logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /api/revalidate")
		defer span.End()

		path := r.URL.Query().Get("path")
		if path == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}

		dropped := pageCache.Delete(path)
		logger.Info("page revalidated",
			zap.String("path", path),
			zap.Bool("dropped", dropped),
		)
		writeJSON(w, http.StatusOK, map[string]any{
			"revalidated": dropped,
			"path":        path,
			"now":         time.Now().UnixMilli(),
		})
	}
}
