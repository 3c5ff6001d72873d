package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dietcare-service/internal/domain"
	apperrors "github.com/spec-kit/dietcare-service/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the trusted caller context derived from a verified access
// token. It mirrors the token claims, not the current DB row: the guard
// trusts the signature for performance, so a deactivated account keeps
// this level of access until its access token expires. GET /auth/me is
// the path that re-checks the durable record.
type Identity struct {
	ID    string
	Email string
	Role  domain.Role
}

// AuthMiddleware validates bearer access tokens on protected routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. Missing or
// malformed headers and invalid tokens are distinct failures.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("missing or malformed authorization header")
	}

	claims, err := m.tokens.ParseAccess(token)
	if err != nil {
		return apperrors.NewInvalidToken(err)
	}

	c.Locals(identityKey, &Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	})
	return c.Next()
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
