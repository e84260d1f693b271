package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/infra/resilience"
	"github.com/vidranorte/vitrine-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Obras — visão pública ao vivo
//
// The customer opens /obras/{titulo} and watches the checklist move while
// the installer updates it. The snapshot endpoint serves the page load;
// the events endpoint streams every change over SSE until the visitor
// leaves.
// ============================================================

// GET /v1/obras/{titulo}
func getObraHandler(svc *service.ObraService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/obras/{titulo}")
		defer span.End()

		titulo := chi.URLParam(r, "titulo")
		span.SetAttributes(attribute.String("obra.titulo", titulo))

		view, err := svc.GetByTitulo(ctx, titulo)
		if err != nil {
			if _, ok := errAsNotFound(err); ok {
				writeError(w, http.StatusNotFound, "Obra não encontrada")
				return
			}
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// GET /v1/obras/{titulo}/events
func obraEventsHandler(svc *service.ObraService, streams *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/obras/{titulo}/events")
		defer span.End()

		titulo := chi.URLParam(r, "titulo")
		span.SetAttributes(attribute.String("obra.titulo", titulo))

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming não suportado")
			return
		}

		if !streams.TryAcquire() {
			writeError(w, http.StatusTooManyRequests, "Muitos acompanhamentos abertos. Tente novamente em instantes.")
			return
		}
		defer streams.Release()

		view, updates, err := svc.Watch(ctx, titulo)
		if err != nil {
			if _, ok := errAsNotFound(err); ok {
				writeError(w, http.StatusNotFound, "Obra não encontrada")
				return
			}
			if view == nil {
				handleServiceError(w, err, logger)
				return
			}
			// The record was fetched but the subscription was not: the
			// visitor still gets the snapshot and the page holds the
			// last-good state instead of an error screen.
			logger.Warn("obra events: streaming unavailable",
				zap.String("titulo", titulo),
				zap.Error(err),
			)
		}

		metrics.StreamOpened()
		defer metrics.StreamClosed()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		writeSSE(w, "snapshot", view)
		flusher.Flush()

		if updates == nil {
			// Subscription failed: the visitor keeps the last good snapshot.
			<-ctx.Done()
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case next, open := <-updates:
				if !open {
					// The subscription died. Tell the page the live feed
					// ended so it can show a "refresh to resume" hint
					// while keeping the last delivered state.
					writeSSE(w, "end", map[string]string{"reason": "subscription closed"})
					flusher.Flush()
					<-ctx.Done()
					return
				}
				writeSSE(w, "update", next)
				flusher.Flush()
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

func errAsNotFound(err error) (*domain.ErrNotFound, bool) {
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		return notFound, true
	}
	return nil, false
}
