package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// ctxRole returns the authenticated caller's role, or RoleAnonymous when the
// request carried no bearer token.
func ctxRole(c echo.Context) domain.Role {
	role, _ := c.Get("role").(string)
	if role == "" {
		return domain.RoleAnonymous
	}
	return domain.Role(role)
}

// ctxUserID extracts the authenticated user id and fast-fails when the auth
// middleware did not run.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// effectiveRole resolves the role used for visibility scoping on read paths.
// The userType query parameter is part of the documented contract (the
// service key authenticates the caller's right to declare it); a bearer
// token's role is used when the parameter is absent.
func effectiveRole(c echo.Context) domain.Role {
	if q := c.QueryParam("userType"); q != "" {
		switch r := domain.Role(q); r {
		case domain.RoleInternal, domain.RoleAdmin, domain.RoleSuperAdmin:
			return r
		default:
			return domain.RoleAnonymous
		}
	}
	return ctxRole(c)
}
