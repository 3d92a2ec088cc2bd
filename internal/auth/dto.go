// Gesco | 2026
// dto.go

package auth

// LoginRequest carries the credential triple. The password is not
// length-checked here: every submitted value must reach the credential
// comparison and fail with the same 401 as any other bad credential.
type LoginRequest struct {
	EntrepriseID int64  `json:"entreprise_id" validate:"required,gt=0"`
	Login        string `json:"login"         validate:"required,min=1,max=255"`
	Password     string `json:"password"      validate:"required,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPairResponse is the body of both login and refresh: a fresh access
// token and a fresh refresh token.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

type MeResponse struct {
	UserID       int64   `json:"user_id"`
	EntrepriseID int64   `json:"entreprise_id"`
	RoleID       int64   `json:"role_id"`
	Login        string  `json:"login"`
	Email        *string `json:"email,omitempty"`
}
