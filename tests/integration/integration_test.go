package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/vidranorte/vitrine-api/internal/config"
	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/handler"
	"github.com/vidranorte/vitrine-api/internal/infra/cache"
	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/infra/realtime"
	"github.com/vidranorte/vitrine-api/internal/infra/resilience"
	"github.com/vidranorte/vitrine-api/internal/infra/supabase"
	"github.com/vidranorte/vitrine-api/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const jwtSecret = "integration-secret"

// mockSupabase emulates the slices of PostgREST and GoTrue the site uses.
type mockSupabase struct {
	srv *httptest.Server

	profileWrites  int
	lastProfile    map[string]any
	portfolioPosts int
}

func newMockSupabase(t *testing.T) *mockSupabase {
	t.Helper()
	m := &mockSupabase{}
	mux := http.NewServeMux()

	mux.HandleFunc("/rest/v1/hero_images", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.HeroImage{
			{ID: "h1", URL: "https://cdn/h1.jpg", Ordem: 1, Ativo: true},
			{ID: "h2", URL: "https://cdn/h2.jpg", Ordem: 2, Ativo: true},
		})
	})
	mux.HandleFunc("/rest/v1/hero_buttons", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.HeroButton{{ID: "hb1", Texto: "Fale conosco", Link: "/contato", Ativo: true}})
	})
	mux.HandleFunc("/rest/v1/background_images", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.BackgroundImage{{ID: "bg1", URL: "https://cdn/bg1.jpg", Ordem: 1, Ativo: true}})
	})
	mux.HandleFunc("/rest/v1/portfolio", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m.portfolioPosts++
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("[" + string(body) + "]"))
			return
		}
		writeJSON(w, []domain.PortfolioItem{
			{ID: "p1", Titulo: "Sacada envidraçada", Fixado: true, Ativo: true},
			{ID: "p2", Titulo: "Box de banheiro", Fixado: true, Ativo: true},
		})
	})
	mux.HandleFunc("/rest/v1/blog_posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.BlogPost{{ID: "b1", Titulo: "Vidro temperado ou laminado?", Ativo: true}})
	})
	mux.HandleFunc("/rest/v1/obras", func(w http.ResponseWriter, r *http.Request) {
		titulo := r.URL.Query().Get("titulo")
		if titulo == "eq.1042" {
			writeJSON(w, []domain.Obra{{
				ID:      "uuid-1042",
				Titulo:  "1042",
				Cliente: "Mercia",
				Checklist: domain.Checklist{
					{Key: "medicao", Text: "Medição", Status: true},
					{Key: "instalacao", Text: "Instalação", Status: false},
				},
			}})
			return
		}
		writeJSON(w, []domain.Obra{})
	})
	mux.HandleFunc("/rest/v1/clientes", func(w http.ResponseWriter, r *http.Request) {
		m.profileWrites++
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &m.lastProfile)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("[" + string(body) + "]"))
	})

	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email string         `json:"email"`
			Data  map[string]any `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		writeJSON(w, domain.AuthUser{ID: "user-new", Email: payload.Email, Metadata: payload.Data})
	})
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload.Password != "senha-certa" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
			return
		}
		meta := map[string]any{"role": "administrador", "nome": "Atendente"}
		writeJSON(w, domain.TokenResponse{
			AccessToken: signToken(payload.Email, meta),
			TokenType:   "bearer",
			User:        domain.AuthUser{ID: "user-staff", Email: payload.Email, Metadata: meta},
		})
	})

	m.srv = httptest.NewServer(mux)
	t.Cleanup(m.srv.Close)
	return m
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func signToken(email string, metadata map[string]any) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           "user-staff",
		"email":         email,
		"user_metadata": metadata,
		"exp":           time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte(jwtSecret))
	return signed
}

func newRouter(t *testing.T, mock *mockSupabase) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("integration")
	rcfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	client := supabase.NewClient(httpClient, mock.srv.URL, "anon", "service", cb, rcfg, logger)
	subscriber := realtime.NewSubscriber(client.BaseURL(), client.AnonKey(), time.Minute, logger)

	pageCache := cache.New[any](5 * time.Minute)
	t.Cleanup(pageCache.Close)

	cfg := &config.Config{
		AllowedOrigins:    []string{"*"},
		SupabaseJWTSecret: jwtSecret,
		CookieName:        "vn_session",
		FeedDelay:         time.Millisecond,
		HeroInterval:      time.Hour,
		BackgroundHold:    time.Hour,
		BackgroundFade:    time.Hour,
	}

	return handler.NewRouter(handler.Deps{
		Content:   service.NewContentService(client, metrics, logger),
		Obras:     service.NewObraService(client, subscriber, metrics, logger),
		Auth:      service.NewAuthService(client, client, cfg.SupabaseJWTSecret, logger),
		Chat:      service.NewChatService(client, logger),
		PageCache: pageCache,
		Streams:   resilience.NewBulkhead(5),
		Metrics:   metrics,
		Config:    cfg,
		Logger:    logger,
	})
}

func TestIntegration_LandingAggregate(t *testing.T) {
	router := newRouter(t, newMockSupabase(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/landing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var landing domain.Landing
	if err := json.NewDecoder(rec.Body).Decode(&landing); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(landing.Hero.Images) != 2 {
		t.Errorf("hero images = %d, want 2", len(landing.Hero.Images))
	}
	if landing.Hero.Fallback {
		t.Error("live hero data should not be flagged as fallback")
	}
	if landing.Hero.Button.Texto != "Fale conosco" {
		t.Errorf("hero button = %q", landing.Hero.Button.Texto)
	}
	if len(landing.Portfolio) != 2 {
		t.Errorf("portfolio preview = %d items, want 2", len(landing.Portfolio))
	}
	if len(landing.Blog) != 1 {
		t.Errorf("blog preview = %d items, want 1", len(landing.Blog))
	}
}

func TestIntegration_ObraByTitulo(t *testing.T) {
	router := newRouter(t, newMockSupabase(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/obras/1042", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var view domain.ObraView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Obra.Cliente != "Mercia" {
		t.Errorf("cliente = %q", view.Obra.Cliente)
	}
	if view.Progress != 50 {
		t.Errorf("progress = %d, want 50", view.Progress)
	}
}

func TestIntegration_ObraNotFound(t *testing.T) {
	router := newRouter(t, newMockSupabase(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/obras/9999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}

func TestIntegration_SignupWritesProfile(t *testing.T) {
	mock := newMockSupabase(t)
	router := newRouter(t, mock)

	form := url.Values{
		"tipo":            {"cliente"},
		"email":           {"novo@example.com"},
		"senha":           {"s3nh4"},
		"confirmar_senha": {"s3nh4"},
		"nome":            {"Novo Cliente"},
		"telefone":        {"91999990000"},
		"cidade":          {"Belém"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/cadastrar", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/acesso?message=") {
		t.Errorf("location = %q", location)
	}
	if strings.Contains(location, url.QueryEscape("não")) {
		t.Errorf("success redirect carries a failure message: %q", location)
	}
	if mock.profileWrites != 1 {
		t.Fatalf("profile writes = %d, want 1", mock.profileWrites)
	}
	if mock.lastProfile["id"] != "user-new" || mock.lastProfile["nome"] != "Novo Cliente" {
		t.Errorf("unexpected profile row: %v", mock.lastProfile)
	}
}

func TestIntegration_SignupMismatchNeverReachesBackend(t *testing.T) {
	mock := newMockSupabase(t)
	router := newRouter(t, mock)

	form := url.Values{
		"tipo":            {"cliente"},
		"email":           {"novo@example.com"},
		"senha":           {"uma"},
		"confirmar_senha": {"outra"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/cadastrar", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	want := "/acesso?message=" + url.QueryEscape("As senhas não coincidem.")
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("location = %q, want %q", got, want)
	}
	if mock.profileWrites != 0 {
		t.Errorf("mismatch must not write a profile, wrote %d", mock.profileWrites)
	}
}

func TestIntegration_LoginSessionDashboard(t *testing.T) {
	mock := newMockSupabase(t)
	router := newRouter(t, mock)

	form := url.Values{
		"email": {"staff@vidranorte.com"},
		"senha": {"senha-certa"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/entrar", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("staff login should land on /dashboard, got %q", got)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "vn_session" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login did not set the session cookie")
	}

	// The cookie alone must authenticate follow-up requests.
	sessionReq := httptest.NewRequest(http.MethodGet, "/v1/auth/session", nil)
	sessionReq.AddCookie(cookie)
	sessionRec := httptest.NewRecorder()
	router.ServeHTTP(sessionRec, sessionReq)

	if sessionRec.Code != http.StatusOK {
		t.Fatalf("session check failed: %d %s", sessionRec.Code, sessionRec.Body.String())
	}
	var session domain.Session
	if err := json.NewDecoder(sessionRec.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	if session.Role != domain.RoleAdministrador {
		t.Errorf("role = %q", session.Role)
	}

	// A staff cookie opens the dashboard writes.
	body := strings.NewReader(`{"titulo":"Nova obra de vidro","imagem":"https://cdn/nova.jpg"}`)
	createReq := httptest.NewRequest(http.MethodPost, "/v1/dashboard/portfolio", body)
	createReq.Header.Set("Content-Type", "application/json")
	createReq.AddCookie(cookie)
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, createReq)

	if createRec.Code != http.StatusCreated {
		t.Fatalf("dashboard create failed: %d %s", createRec.Code, createRec.Body.String())
	}
	if mock.portfolioPosts != 1 {
		t.Errorf("portfolio posts = %d, want 1", mock.portfolioPosts)
	}
}

func TestIntegration_LoginRejectionKeepsBackendText(t *testing.T) {
	router := newRouter(t, newMockSupabase(t))

	form := url.Values{
		"email": {"staff@vidranorte.com"},
		"senha": {"senha-errada"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/entrar", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	want := "/acesso?message=" + url.QueryEscape("Invalid login credentials")
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("location = %q, want %q", got, want)
	}
}

func TestIntegration_DashboardRequiresStaff(t *testing.T) {
	router := newRouter(t, newMockSupabase(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/obras", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 to login, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login" {
		t.Errorf("location = %q", got)
	}
}
