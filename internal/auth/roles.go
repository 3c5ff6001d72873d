package auth

import (
	"github.com/spec-kit/dietcare-service/internal/domain"
	apperrors "github.com/spec-kit/dietcare-service/pkg/util"

	"github.com/gofiber/fiber/v2"
)

// RequireRole ensures the caller holds one of the allowed roles. With no
// arguments it only requires an authenticated caller.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewAccessDenied("insufficient role")
		}
		return c.Next()
	}
}

// IsElevated reports whether the role may act on any patient's records.
func IsElevated(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RolePractitioner
}
