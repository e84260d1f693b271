package handler

import (
	"net/http"
	"time"

	"github.com/vidranorte/vitrine-api/internal/config"
	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/infra/resilience"
	"github.com/vidranorte/vitrine-api/internal/port"
	"github.com/vidranorte/vitrine-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Deps bundles everything the router needs.
type Deps struct {
	Content   *service.ContentService
	Obras     *service.ObraService
	Auth      *service.AuthService
	Chat      *service.ChatService
	PageCache port.Cache[any]
	Streams   *resilience.Bulkhead
	Metrics   *observability.Metrics
	Config    *config.Config
	Logger    *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract the vitrine frontend consumes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(d.Logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(SessionMiddleware(d.Auth, d.Config.CookieName))

	cookie := sessionCookieConfig{Name: d.Config.CookieName, Secure: d.Config.CookieSecure}

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.Content, d.Logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- Auth form actions (303 redirects) ---
	r.Route("/auth", func(r chi.Router) {
		r.Post("/cadastrar", authRegisterHandler(d.Auth, d.Logger))
		r.Post("/entrar", authLoginHandler(d.Auth, d.Logger, cookie))
		r.Post("/sair", authLogoutHandler(d.Auth, d.Logger, cookie))
	})

	// --- Next.js style API routes ---
	r.Get("/api/instagram_feed", instagramFeedHandler(d.Config.FeedDelay, d.Logger))
	r.Get("/api/revalidate", revalidateHandler(d.PageCache, d.Logger))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Conteúdo público
		// =============================================
		r.Get("/landing", landingHandler(d.Content, d.PageCache, d.Metrics, d.Logger))
		r.Get("/hero", heroHandler(d.Content, d.Logger))
		r.Get("/backgrounds", backgroundsHandler(d.Content, d.Logger))
		r.Get("/portfolio", listPortfolioHandler(d.Content, d.PageCache, d.Metrics, d.Logger))
		r.Get("/blog", listBlogHandler(d.Content, d.PageCache, d.Metrics, d.Logger))

		// =============================================
		// Obras — acompanhamento público ao vivo
		// =============================================
		r.Get("/obras/{titulo}", getObraHandler(d.Obras, d.Logger))
		r.Get("/obras/{titulo}/events", obraEventsHandler(d.Obras, d.Streams, d.Metrics, d.Logger))

		// =============================================
		// Showroom — ticker dos carrosséis
		// =============================================
		r.Get("/showroom/ticker", showroomTickerHandler(d.Content, showroomTickerConfig{
			HeroInterval:   d.Config.HeroInterval,
			BackgroundHold: d.Config.BackgroundHold,
			BackgroundFade: d.Config.BackgroundFade,
		}, d.Streams, d.Metrics, d.Logger))

		// =============================================
		// Sessão
		// =============================================
		r.Get("/auth/session", sessionHandler(d.Logger))

		// =============================================
		// Atendimento (requer sessão)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(RequireSession(d.Logger))
			r.Get("/chat", getChatHandler(d.Chat, d.Logger))
			r.Get("/chat/{chatId}/messages", listMessagesHandler(d.Chat, d.Logger))
			r.Post("/chat/{chatId}/messages", sendMessageHandler(d.Chat, d.Logger))
		})

		// =============================================
		// Dashboard (restrito à equipe)
		// =============================================
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(RequireStaff(d.Logger))

			r.Get("/chats", listChatsHandler(d.Chat, d.Logger))

			r.Post("/portfolio", createPortfolioHandler(d.Content, d.PageCache, d.Logger))
			r.Patch("/portfolio/{id}", updatePortfolioHandler(d.Content, d.PageCache, d.Logger))
			r.Delete("/portfolio/{id}", deletePortfolioHandler(d.Content, d.PageCache, d.Logger))

			r.Post("/blog", createBlogPostHandler(d.Content, d.PageCache, d.Logger))
			r.Patch("/blog/{id}", updateBlogPostHandler(d.Content, d.PageCache, d.Logger))
			r.Delete("/blog/{id}", deleteBlogPostHandler(d.Content, d.PageCache, d.Logger))

			r.Get("/obras", listObrasHandler(d.Obras, d.Logger))
			r.Post("/obras", createObraHandler(d.Obras, d.Logger))
			r.Patch("/obras/{id}", updateObraHandler(d.Obras, d.Logger))
			r.Delete("/obras/{id}", deleteObraHandler(d.Obras, d.Logger))
		})
	})

	return r
}

// ============================================================
// Saúde
// ============================================================

func healthzHandler(contentSvc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "vitrine-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		start := time.Now()
		_, err := contentSvc.ListBackgrounds(ctx)
		latency := time.Since(start).Milliseconds()
		status := "healthy"
		if err != nil {
			status = "degraded"
		}
		services = append(services, domain.ServiceHealth{
			Name: "supabase", Status: status, LatencyMs: latency, LastChecked: now,
		})

		overall := "healthy"
		for _, s := range services {
			if s.Status == "degraded" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: overall, Services: services})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
