// Package service — AuthService wraps the hosted auth backend: sign-up
// with the role-specific profile write, password sign-in, sign-out, and
// local validation of the backend's JWTs for the dashboard gate.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

// MsgPasswordMismatch is the exact signup validation message the form
// redirect carries.
const MsgPasswordMismatch = "As senhas não coincidem."

// AuthService orchestrates the session flows.
type AuthService struct {
	api       port.AuthAPI
	profiles  port.ProfileStore
	jwtSecret []byte
	logger    *zap.Logger
}

// NewAuthService creates a new auth service. jwtSecret is the Supabase
// project JWT secret used to validate access tokens locally.
func NewAuthService(api port.AuthAPI, profiles port.ProfileStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		api:       api,
		profiles:  profiles,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

// ============================================================
// SignUp — POST /auth/cadastrar
// ============================================================

// SignUp validates the form, creates the account, and upserts the
// role-specific profile record. The password check runs before any backend
// call: a mismatch must never reach the auth service.
func (s *AuthService) SignUp(ctx context.Context, req *domain.SignUpRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.SignUp")
	defer span.End()

	if req.Password != req.ConfirmPassword {
		return &domain.ErrValidation{Field: "confirmPassword", Message: MsgPasswordMismatch}
	}
	if req.Email == "" || req.Password == "" {
		return &domain.ErrValidation{Field: "email", Message: "Preencha e-mail e senha."}
	}
	if req.Role != domain.RoleCliente && req.Role != domain.RoleArquiteto {
		return &domain.ErrValidation{Field: "role", Message: "Tipo de conta inválido."}
	}
	span.SetAttributes(attribute.String("signup.role", string(req.Role)))

	metadata := map[string]any{
		"role":     string(req.Role),
		"nome":     req.Nome,
		"telefone": req.Telefone,
	}

	user, err := s.api.SignUp(ctx, strings.TrimSpace(req.Email), req.Password, metadata)
	if err != nil {
		return err
	}

	profile := &domain.Profile{
		ID:        user.ID,
		Nome:      req.Nome,
		Email:     req.Email,
		Telefone:  req.Telefone,
		Endereco:  req.Endereco,
		Documento: req.Documento,
		Cidade:    req.Cidade,
		Estado:    req.Estado,
	}
	if err := s.profiles.UpsertProfile(ctx, req.Role, profile); err != nil {
		return fmt.Errorf("write %s profile: %w", req.Role, err)
	}

	s.logger.Info("account registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(req.Role)),
	)
	return nil
}

// ============================================================
// SignIn — POST /auth/entrar
// ============================================================

// SignIn exchanges credentials for a session. The role is read from the
// account's metadata and must parse: a record with an unknown role tag is
// a rejected login, not a silent default.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.SignIn")
	defer span.End()

	tok, err := s.api.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}

	session, err := sessionFromUser(&tok.User, tok.AccessToken)
	if err != nil {
		s.logger.Warn("sign-in rejected: bad account metadata",
			zap.String("user_id", tok.User.ID),
			zap.Error(err),
		)
		return nil, &domain.ErrUnauthorized{Message: "Conta sem perfil válido."}
	}

	s.logger.Info("signed in",
		zap.String("user_id", session.UserID),
		zap.String("role", string(session.Role)),
	)
	return session, nil
}

// SignOut revokes the session at the backend. A failed revoke is logged
// but does not keep the visitor signed in locally.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) {
	ctx, span := authTracer.Start(ctx, "AuthService.SignOut")
	defer span.End()

	if accessToken == "" {
		return
	}
	if err := s.api.SignOut(ctx, accessToken); err != nil {
		s.logger.Warn("sign-out: backend revoke failed", zap.Error(err))
	}
}

// ============================================================
// Session validation — used by middleware
// ============================================================

// sessionClaims are the GoTrue access-token claims we care about.
type sessionClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// ValidateSession checks an access token locally against the project JWT
// secret and rebuilds the Session from its claims.
func (s *AuthService) ValidateSession(accessToken string) (*domain.Session, error) {
	token, err := jwt.ParseWithClaims(accessToken, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Sessão inválida ou expirada"}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "Sessão inválida"}
	}

	role, err := domain.ParseRole(stringFromMetadata(claims.UserMetadata, "role"))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Conta sem perfil válido."}
	}

	return &domain.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Role:        role,
		Nome:        stringFromMetadata(claims.UserMetadata, "nome"),
		AccessToken: accessToken,
	}, nil
}

// sessionFromUser builds a Session from the auth backend's user object.
func sessionFromUser(user *domain.AuthUser, accessToken string) (*domain.Session, error) {
	role, err := domain.ParseRole(stringFromMetadata(user.Metadata, "role"))
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        role,
		Nome:        stringFromMetadata(user.Metadata, "nome"),
		AccessToken: accessToken,
	}, nil
}

func stringFromMetadata(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}
