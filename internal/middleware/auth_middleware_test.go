package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/dto"
	"quiz-arena/internal/middleware"
)

type stubValidator struct {
	claims map[string]*dto.AuthClaims
}

func (s stubValidator) ValidateJWT(_ context.Context, token string) (*dto.AuthClaims, error) {
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, errors.New("token is malformed")
}

func newAuthApp(h fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", h, func(c *fiber.Ctx) error {
		return c.SendString("user=" + middleware.UserID(c))
	})
	return app
}

var validator = stubValidator{claims: map[string]*dto.AuthClaims{
	"access-u1":  {UserID: "u1", TokenType: "access"},
	"refresh-u1": {UserID: "u1", TokenType: "refresh"},
}}

func TestProtected(t *testing.T) {
	app := newAuthApp(middleware.Protected(validator))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", fiber.StatusUnauthorized, "MISSING_AUTH_HEADER"},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized, "INVALID_AUTH_SCHEME"},
		{"empty token", "Bearer ", fiber.StatusUnauthorized, "EMPTY_TOKEN"},
		{"bare scheme", "Bearer", fiber.StatusUnauthorized, "EMPTY_TOKEN"},
		{"whitespace token", "Bearer \t ", fiber.StatusUnauthorized, "EMPTY_TOKEN"},
		{"scheme without separator", "Bearerabc", fiber.StatusUnauthorized, "INVALID_AUTH_SCHEME"},
		{"invalid token", "Bearer nope", fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"refresh token", "Bearer refresh-u1", fiber.StatusForbidden, "INVALID_TOKEN_TYPE"},
		{"valid access token", "Bearer access-u1", fiber.StatusOK, "user=u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := newAuthApp(middleware.OptionalAuth(validator))

	tests := []struct {
		name     string
		header   string
		wantBody string
	}{
		{"anonymous", "", "user="},
		{"bare scheme", "Bearer", "user="},
		{"invalid token", "Bearer nope", "user="},
		{"refresh token", "Bearer refresh-u1", "user="},
		{"valid access token", "Bearer access-u1", "user=u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}
