package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleUserInfo holds user information obtained from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// ProfileResponse is the signed-in user's profile.
// @Description Profile with token balance and daily claim status
type ProfileResponse struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	Tokens            int        `json:"tokens"`
	LastCoinClaim     *time.Time `json:"last_coin_claim,omitempty"`
	CanClaimDaily     bool       `json:"can_claim_daily"`
	NextClaimAt       *time.Time `json:"next_claim_at,omitempty"`
}

// LoginResponse is returned by the OAuth callback.
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Profile      ProfileResponse `json:"profile"`
}

// TokenResponse represents the response containing access and refresh tokens.
// @Description Response body for authentication tokens
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest represents the request body for refreshing a token.
// @Description Request body for refreshing JWT tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// BalanceResponse is the caller's token balance.
type BalanceResponse struct {
	Balance int `json:"balance"`
}

// TokenCreditResponse is returned by the daily claim and the purchase endpoints.
type TokenCreditResponse struct {
	Credited    int        `json:"credited"`
	Balance     int        `json:"balance"`
	NextClaimAt *time.Time `json:"next_claim_at,omitempty"`
}

// Pagination is read from limit/offset query parameters.
type Pagination struct {
	Limit  int `query:"limit" json:"limit"`
	Offset int `query:"offset" json:"offset"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps the limit and offset to usable values.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems int `json:"total_items"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
}
