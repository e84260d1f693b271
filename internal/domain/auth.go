package domain

// Session is the authenticated state carried by the session cookie after a
// successful sign-in. AccessToken is the auth backend's JWT; the remaining
// fields are decoded from its claims and user metadata.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Nome        string `json:"nome"`
	AccessToken string `json:"-"`
}

// SignUpRequest is the registration form payload. Password confirmation is
// checked before any backend call.
type SignUpRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            Role
	Nome            string
	Telefone        string
	Endereco        string
	Documento       string
	Cidade          string
	Estado          string
}

// Profile is the role-specific record written at signup, keyed by the auth
// user's id so repeated submissions upsert instead of duplicating.
type Profile struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Telefone  string `json:"telefone"`
	Endereco  string `json:"endereco"`
	Documento string `json:"documento"`
	Cidade    string `json:"cidade"`
	Estado    string `json:"estado"`
}

// AuthUser is the auth backend's view of an account: opaque id plus the
// arbitrary metadata payload sent at signup.
type AuthUser struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// TokenResponse is the auth backend's password-grant response.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}
