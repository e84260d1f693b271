package handler

import (
	"errors"
	"net/http"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Autenticação — form actions
//
// These endpoints back the /acesso page forms. They always answer with a
// 303 redirect; failures go back to /acesso carrying the human-readable
// text in the message query parameter.
// ============================================================

const accessPage = "/acesso"

type sessionCookieConfig struct {
	Name   string
	Secure bool
}

func setSessionCookie(w http.ResponseWriter, cfg sessionCookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg sessionCookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// POST /auth/cadastrar
func authRegisterHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /auth/cadastrar")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			redirectWithMessage(w, r, accessPage, "Formulário inválido.")
			return
		}

		role, err := domain.ParseRole(r.PostFormValue("tipo"))
		if err != nil {
			redirectWithMessage(w, r, accessPage, "Tipo de conta inválido.")
			return
		}

		req := &domain.SignUpRequest{
			Email:           r.PostFormValue("email"),
			Password:        r.PostFormValue("senha"),
			ConfirmPassword: r.PostFormValue("confirmar_senha"),
			Role:            role,
			Nome:            r.PostFormValue("nome"),
			Telefone:        r.PostFormValue("telefone"),
			Endereco:        r.PostFormValue("endereco"),
			Documento:       r.PostFormValue("documento"),
			Cidade:          r.PostFormValue("cidade"),
			Estado:          r.PostFormValue("estado"),
		}

		if err := authSvc.SignUp(ctx, req); err != nil {
			redirectWithMessage(w, r, accessPage, userMessage(err))
			return
		}

		redirectWithMessage(w, r, accessPage, "Cadastro realizado com sucesso. Faça login para continuar.")
	}
}

// POST /auth/entrar
func authLoginHandler(authSvc *service.AuthService, logger *zap.Logger, cookie sessionCookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /auth/entrar")
		defer span.End()

		if err := r.ParseForm(); err != nil {
			redirectWithMessage(w, r, accessPage, "Formulário inválido.")
			return
		}

		session, err := authSvc.SignIn(ctx, r.PostFormValue("email"), r.PostFormValue("senha"))
		if err != nil {
			redirectWithMessage(w, r, accessPage, userMessage(err))
			return
		}

		setSessionCookie(w, cookie, session.AccessToken)
		http.Redirect(w, r, session.Role.PostLoginPath(), http.StatusSeeOther)
	}
}

// POST /auth/sair
func authLogoutHandler(authSvc *service.AuthService, logger *zap.Logger, cookie sessionCookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /auth/sair")
		defer span.End()

		if session := SessionFromContext(ctx); session != nil {
			authSvc.SignOut(ctx, session.AccessToken)
		}
		clearSessionCookie(w, cookie)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// GET /v1/auth/session
func sessionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session == nil {
			writeError(w, http.StatusUnauthorized, "Sessão não encontrada")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// userMessage extracts the text shown to the visitor from a domain error.
// Generic failures get a fixed wording instead of leaking internals.
func userMessage(err error) string {
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized
	var conflict *domain.ErrConflict

	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &unauthorized):
		return unauthorized.Error()
	case errors.As(err, &conflict):
		return conflict.Message
	default:
		return "Não foi possível concluir a operação. Tente novamente."
	}
}
