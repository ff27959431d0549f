package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// RBAC enforces role-based access control on admin surfaces. A denial
// returns domain.ErrForbidden so the central error handler renders the
// canonical 403 envelope.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
