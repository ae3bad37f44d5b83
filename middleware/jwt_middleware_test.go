package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, refreshString, err := GenerateJWT("user-1", "aff@example.com", "affiliate")
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}
	if tokenString == "" || refreshString == "" {
		t.Fatal("expected non-empty token pair")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims, ok := parsed.Claims.(*JwtCustomClaims)
	if !ok || !parsed.Valid {
		t.Fatal("expected valid custom claims")
	}
	if claims.UserID != "user-1" || claims.Email != "aff@example.com" || claims.Role != "affiliate" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt <= time.Now().Unix() {
		t.Error("access token should not be expired")
	}
}

func TestGenerateJWTWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, _, err := GenerateJWT("user-1", "aff@example.com", "affiliate"); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestJWTMiddlewareWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		t.Fatal("handler must not run without a configured secret")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError when JWT_SECRET is unset, got %v", err)
	}
}

func TestJWTMiddlewareAcceptsIssuedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, _, err := GenerateJWT("user-1", "aff@example.com", "affiliate")
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		claims := GetUserFromToken(c)
		if claims == nil {
			t.Fatal("expected claims in context")
		}
		if claims.UserID != "user-1" {
			t.Errorf("user id = %q", claims.UserID)
		}
		if ExtractRole(c) != "affiliate" {
			t.Errorf("role = %q", ExtractRole(c))
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("middleware rejected valid token: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestJWTMiddlewareRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	if err == nil {
		t.Fatal("expected middleware to reject invalid token")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 HTTPError, got %v", err)
	}
}
