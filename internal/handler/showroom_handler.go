package handler

import (
	"net/http"
	"time"

	"github.com/vidranorte/vitrine-api/internal/carousel"
	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/infra/resilience"
	"github.com/vidranorte/vitrine-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Showroom ticker
//
// The showroom TV runs a dumb player: it opens this stream and paints
// whatever slide index arrives. The server drives the hero strip and the
// background cross-fade with the same engines the site uses, so both
// screens stay in lockstep with the published content.
// ============================================================

type showroomTickerConfig struct {
	HeroInterval   time.Duration
	BackgroundHold time.Duration
	BackgroundFade time.Duration
}

type tickEvent struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

// GET /v1/showroom/ticker
func showroomTickerHandler(svc *service.ContentService, cfg showroomTickerConfig, streams *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/showroom/ticker")
		defer span.End()

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

		hero := svc.GetHero(ctx)
		backgrounds, err := svc.ListBackgrounds(ctx)
		if err != nil {
			logger.Warn("showroom: backgrounds unavailable, cycling hero only", zap.Error(err))
			backgrounds = nil
		}

		metrics.StreamOpened()
		defer metrics.StreamClosed()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		writeSSE(w, "content", map[string]any{
			"hero":        hero,
			"backgrounds": backgrounds,
		})
		flusher.Flush()

		ticks := make(chan tickEvent, 8)

		strip := carousel.NewStrip(len(hero.Images), carousel.Wrap)
		advancer := carousel.NewAutoAdvancer(strip, cfg.HeroInterval)
		advancer.OnAdvance = func(index int) {
			select {
			case ticks <- tickEvent{Kind: "hero", Index: index}:
			default:
			}
		}

		fade := carousel.NewCrossfade(len(backgrounds), cfg.BackgroundHold, cfg.BackgroundFade)
		fade.OnAdvance = func(index int) {
			select {
			case ticks <- tickEvent{Kind: "background", Index: index}:
			default:
			}
		}

		go advancer.Run(ctx)
		go fade.Run(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case tick := <-ticks:
				writeSSE(w, "tick", tick)
				flusher.Flush()
			}
		}
	}
}
