package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vidranorte/vitrine-api/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// AuthAPI implementation — hosted GoTrue auth service
// ============================================================
//
// Session actions are a single request/response exchange: no retry and no
// circuit breaker here, per the form-action contract. A 400 on bad
// credentials must reach the caller as-is, with the backend's own error
// text.

type authError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e *authError) text() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	}
	return "authentication failed"
}

// SignUp creates an account with email/password plus arbitrary metadata.
// Email confirmation, when enabled, is entirely the backend's business.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthUser, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignUp")
	defer span.End()

	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	body, status, err := c.doAuth(ctx, "signup", "", payload)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	if status < 200 || status >= 300 {
		var ae authError
		_ = json.Unmarshal(body, &ae)
		c.logger.Warn("supabase auth: signup rejected",
			zap.Int("status", status),
			zap.String("message", ae.text()),
		)
		return nil, &domain.ErrUnauthorized{Message: ae.text()}
	}

	// GoTrue returns either the user directly or a session wrapping it,
	// depending on the project's confirmation settings.
	var user domain.AuthUser
	if err := json.Unmarshal(body, &user); err == nil && user.ID != "" {
		return &user, nil
	}
	var wrapped struct {
		User domain.AuthUser `json:"user"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil || wrapped.User.ID == "" {
		return nil, fmt.Errorf("decode signup response: %s", string(body))
	}
	return &wrapped.User, nil
}

// SignInWithPassword exchanges email/password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignInWithPassword")
	defer span.End()

	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	body, status, err := c.doAuth(ctx, "token", "grant_type=password", payload)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	if status < 200 || status >= 300 {
		var ae authError
		_ = json.Unmarshal(body, &ae)
		c.logger.Warn("supabase auth: sign-in rejected",
			zap.Int("status", status),
			zap.String("message", ae.text()),
		)
		return nil, &domain.ErrUnauthorized{Message: ae.text()}
	}

	var tok domain.TokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &tok, nil
}

// SignOut revokes the session's refresh tokens.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	ctx, span := tracer.Start(ctx, "Supabase.SignOut")
	defer span.End()

	url := fmt.Sprintf("%s/auth/v1/logout", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase auth: logout request failed", zap.Error(err))
		return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("supabase auth: logout non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("supabase logout returned %d", resp.StatusCode)
	}
	return nil
}

// doAuth posts to a GoTrue endpoint with the anon key. Non-2xx is returned
// to the caller via status, not as an error, so auth failures keep their
// backend-provided text.
func (c *Client) doAuth(ctx context.Context, endpoint, query string, payload any) ([]byte, int, error) {
	url := fmt.Sprintf("%s/auth/v1/%s", c.baseURL, endpoint)
	if query != "" {
		url += "?" + query
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase auth: request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
