package auth

import (
	"github.com/petcareclinic/petcare-backend/internal/users"
)

// LoginRequest accepts either a username or an email in Login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest pairs the (possibly expired) access token with its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse is the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
