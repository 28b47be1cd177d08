package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=1,max=150"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager cashier viewer"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// MeResponse is the current user plus the pages the role may navigate to.
type MeResponse struct {
	User         UserResponse `json:"user"`
	AllowedPages []string     `json:"allowed_pages"`
}
