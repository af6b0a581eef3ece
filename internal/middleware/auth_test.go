// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/core"
)

// stubVerifier maps fixed token strings to identities or errors.
type stubVerifier struct {
	tokens map[string]*AccessTokenClaims
	errs   map[string]error
}

func (s *stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if err, ok := s.errs[token]; ok {
		return nil, err
	}
	if claims, ok := s.tokens[token]; ok {
		return claims, nil
	}
	return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{
		tokens: map[string]*AccessTokenClaims{
			"user-token": {
				UserID: 1, Email: "u@example.com", Role: core.RoleUser},
			"staff-token": {
				UserID: 2, Email: "s@example.com", Role: core.RoleStaff},
			"admin-token": {
				UserID: 3, Email: "a@example.com", Role: core.RoleAdmin},
		},
		errs: map[string]error{
			"expired-token": fmt.Errorf(
				"verify token: %w", core.ErrTokenExpired),
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doGet(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthenticator(t *testing.T) {
	handler := Authenticator(newStubVerifier())(okHandler())

	t.Run("valid token passes", func(t *testing.T) {
		rec := doGet(handler, "user-token")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := doGet(handler, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := doGet(handler, "garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_INVALID", errorCode(t, rec))
	})

	t.Run("expired token", func(t *testing.T) {
		rec := doGet(handler, "expired-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, rec))
	})
}

func TestAuthenticatorAttachesIdentity(t *testing.T) {
	var gotID int64
	var gotRole core.Role

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotRole = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticator(newStubVerifier())(inner)
	rec := doGet(handler, "staff-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), gotID)
	assert.Equal(t, core.RoleStaff, gotRole)
}

// Each privilege tier against each gate: authenticated requests below the
// tier get 403, at or above get 200.
func TestRoleGateMatrix(t *testing.T) {
	verifier := newStubVerifier()

	gates := map[string]func(http.Handler) http.Handler{
		"user":  RequireMinRole(core.RoleUser),
		"staff": RequireStaff,
		"admin": RequireAdmin,
	}

	tests := []struct {
		token string
		gate  string
		want  int
	}{
		{"user-token", "user", http.StatusOK},
		{"user-token", "staff", http.StatusForbidden},
		{"user-token", "admin", http.StatusForbidden},
		{"staff-token", "user", http.StatusOK},
		{"staff-token", "staff", http.StatusOK},
		{"staff-token", "admin", http.StatusForbidden},
		{"admin-token", "user", http.StatusOK},
		{"admin-token", "staff", http.StatusOK},
		{"admin-token", "admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.token+"_"+tt.gate, func(t *testing.T) {
			handler := Authenticator(verifier)(gates[tt.gate](okHandler()))
			rec := doGet(handler, tt.token)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoleGateWithoutIdentity(t *testing.T) {
	// A gate reached with no identity on the context is an authentication
	// failure, not an authorization one.
	handler := RequireStaff(okHandler())
	rec := doGet(handler, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"wrong scheme", "Basic abc", ""},
		{"scheme only", "Bearer", ""},
		{"padded token", "Bearer   abc  ", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}
