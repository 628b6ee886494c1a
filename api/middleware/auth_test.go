package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/mercadito-backend/pkg/auth"
	"github.com/angelmondragon/mercadito-backend/pkg/config"
	"github.com/angelmondragon/mercadito-backend/pkg/enums"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "mercadito", ExpirationMinutes: 60}

func mintTestToken(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := auth.MintAccessToken(testJWT, time.Now(), auth.AccessTokenPayload{Subject: "user-1", Role: role})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateAllowsAnonymous(t *testing.T) {
	var subject string
	handler := Authenticate(testJWT, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := serve(handler, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if subject != "" {
		t.Fatalf("expected anonymous request, got subject %q", subject)
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	handler := Authenticate(testJWT, nil)(okHandler())
	if resp := serve(handler, "invalid"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthenticateSeedsClaims(t *testing.T) {
	var (
		subject string
		role    enums.Role
	)
	handler := Authenticate(testJWT, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = SubjectFromContext(r.Context())
		role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := serve(handler, mintTestToken(t, enums.RoleCustomer))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if subject != "user-1" || role != enums.RoleCustomer {
		t.Fatalf("unexpected actor %q/%q", subject, role)
	}
}

func TestRequireAuthenticatedForbidsAnonymous(t *testing.T) {
	handler := Authenticate(testJWT, nil)(RequireAuthenticated(nil)(okHandler()))

	if resp := serve(handler, ""); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if resp := serve(handler, mintTestToken(t, enums.RoleCustomer)); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := Authenticate(testJWT, nil)(RequireRole(enums.RoleAdmin, nil)(okHandler()))

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"customer", mintTestToken(t, enums.RoleCustomer), http.StatusForbidden},
		{"admin", mintTestToken(t, enums.RoleAdmin), http.StatusOK},
	}
	for _, tc := range cases {
		if resp := serve(handler, tc.token); resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}

func TestBearerToken(t *testing.T) {
	if got := bearerToken("  BEARER abc "); got != "abc" {
		t.Fatalf("unexpected token %q", got)
	}
	if got := bearerToken("abc"); got != "abc" {
		t.Fatalf("raw tokens should pass through, got %q", got)
	}
}
