// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/config"
	"github.com/angelamos/storefront/internal/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:      testSecret,
		TokenExpire: time.Hour,
		Issuer:      "storefront",
		Audience:    "storefront-api",
	}
}

func newTestManager(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager(cfg)
	require.NoError(t, err)
	return manager
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""

	_, err := NewJWTManager(cfg)
	require.Error(t, err)
}

func TestCreateAndVerifyAccessToken(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	token, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: 42,
		Email:  "alice@example.com",
		Role:   core.RoleStaff,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, core.RoleStaff, claims.Role)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.TokenExpire = -time.Minute
	manager := newTestManager(t, cfg)

	token, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: 1,
		Email:  "alice@example.com",
		Role:   core.RoleUser,
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	issuer := newTestManager(t, testJWTConfig())

	otherCfg := testJWTConfig()
	otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
	verifier := newTestManager(t, otherCfg)

	token, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID: 1,
		Email:  "alice@example.com",
		Role:   core.RoleUser,
	})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyAccessTokenMalformed(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	for _, token := range []string{
		"",
		"not-a-jwt",
		"aaaa.bbbb.cccc",
	} {
		_, err := manager.VerifyAccessToken(context.Background(), token)
		require.ErrorIs(t, err, core.ErrTokenInvalid, "token %q", token)
	}
}

func TestVerifyAccessTokenWrongIssuerOrAudience(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	otherIssuer := testJWTConfig()
	otherIssuer.Issuer = "someone-else"

	otherAudience := testJWTConfig()
	otherAudience.Audience = "other-api"

	for name, cfg := range map[string]config.JWTConfig{
		"issuer":   otherIssuer,
		"audience": otherAudience,
	} {
		t.Run(name, func(t *testing.T) {
			foreign := newTestManager(t, cfg)
			token, err := foreign.CreateAccessToken(AccessTokenClaims{
				UserID: 1,
				Email:  "alice@example.com",
				Role:   core.RoleUser,
			})
			require.NoError(t, err)

			_, err = manager.VerifyAccessToken(context.Background(), token)
			require.ErrorIs(t, err, core.ErrTokenInvalid)
		})
	}
}

// signRaw signs an arbitrary claim set with the test secret, to exercise
// rejection of structurally unexpected payloads.
func signRaw(t *testing.T, mutate func(b *jwt.Builder)) string {
	t.Helper()

	now := time.Now()
	builder := jwt.NewBuilder().
		Issuer("storefront").
		Audience([]string{"storefront-api"}).
		Subject(strconv.FormatInt(7, 10)).
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Claim("email", "alice@example.com").
		Claim("role", "user").
		Claim("type", "access")

	mutate(builder)

	token, err := builder.Build()
	require.NoError(t, err)

	key, err := jwk.Import([]byte(testSecret))
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
	require.NoError(t, err)

	return string(signed)
}

func TestVerifyAccessTokenRejectsUnexpectedClaims(t *testing.T) {
	manager := newTestManager(t, testJWTConfig())

	tests := []struct {
		name   string
		mutate func(b *jwt.Builder)
	}{
		{
			name:   "wrong token type",
			mutate: func(b *jwt.Builder) { b.Claim("type", "refresh") },
		},
		{
			name:   "unknown role",
			mutate: func(b *jwt.Builder) { b.Claim("role", "superuser") },
		},
		{
			name:   "empty email",
			mutate: func(b *jwt.Builder) { b.Claim("email", "") },
		},
		{
			name:   "non-numeric subject",
			mutate: func(b *jwt.Builder) { b.Subject("alice") },
		},
		{
			name:   "zero subject",
			mutate: func(b *jwt.Builder) { b.Subject("0") },
		},
		{
			name:   "negative subject",
			mutate: func(b *jwt.Builder) { b.Subject("-5") },
		},
		{
			// An nbf failure is a validation error but not an expiry;
			// it must not surface as a stale-token response.
			name: "not yet valid",
			mutate: func(b *jwt.Builder) {
				b.NotBefore(time.Now().Add(time.Hour))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signRaw(t, tt.mutate)
			_, err := manager.VerifyAccessToken(context.Background(), token)
			require.ErrorIs(t, err, core.ErrTokenInvalid)
		})
	}
}
