package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestServiceKey_ValidKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-functions-key", "shared-key")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := ServiceKey("shared-key")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
}

func TestServiceKey_Rejections(t *testing.T) {
	e := echo.New()
	cases := []struct {
		name string
		key  string
	}{
		{"missing key", ""},
		{"wrong key", "not-the-key"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.key != "" {
			req.Header.Set("x-functions-key", tc.key)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := ServiceKey("shared-key")(func(c echo.Context) error {
			t.Fatalf("%s: next must not be called", tc.name)
			return nil
		})

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 HTTPError, got %v", tc.name, err)
		}
	}
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	signed := signedToken(t, "secret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "ana@example.com",
		"name":  "Ana",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "user-1" {
			t.Fatal("user_id not set")
		}
		if c.Get("role") != "admin" {
			t.Fatal("role not set")
		}
		if c.Get("email") != "ana@example.com" {
			t.Fatal("email not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
}

func TestAuth_Rejections(t *testing.T) {
	e := echo.New()
	forged := signedToken(t, "other-secret", jwt.MapClaims{"sub": "user-1", "role": "admin"})
	expired := signedToken(t, "secret", jwt.MapClaims{"sub": "user-1", "role": "admin", "exp": time.Now().Add(-time.Minute).Unix()})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signature", "Bearer " + forged},
		{"expired", "Bearer " + expired},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth("secret")(func(c echo.Context) error {
			t.Fatalf("%s: next must not be called", tc.name)
			return nil
		})

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 HTTPError, got %v", tc.name, err)
		}
	}
}

func TestOptionalAuth_NoHeaderPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := OptionalAuth("secret")(func(c echo.Context) error {
		called = true
		if c.Get("role") != nil {
			t.Fatal("no claims may be set without a token")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
}

func TestOptionalAuth_ValidTokenSetsClaims(t *testing.T) {
	e := echo.New()
	signed := signedToken(t, "secret", jwt.MapClaims{
		"sub":  "user-1",
		"role": "internal",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := OptionalAuth("secret")(func(c echo.Context) error {
		if c.Get("role") != "internal" {
			t.Fatal("role not set from token")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestOptionalAuth_BadTokenStillRejected(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := OptionalAuth("secret")(func(c echo.Context) error {
		t.Fatal("next must not be called with a bad token")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
