// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	valid, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("correct horse battery stable", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	first, err := HashPassword("same password")
	require.NoError(t, err)

	second, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, hash := range []string{first, second} {
		valid, err := VerifyPassword("same password", hash)
		require.NoError(t, err)
		assert.True(t, valid)
	}
}

func TestVerifyPasswordLegacyPlaintext(t *testing.T) {
	tests := []struct {
		name     string
		password string
		verifier string
		want     bool
	}{
		{
			name:     "matching plaintext",
			password: "hunter2",
			verifier: "hunter2",
			want:     true,
		},
		{
			name:     "mismatched plaintext",
			password: "hunter2",
			verifier: "hunter3",
			want:     false,
		},
		{
			name:     "plaintext is not prefix matched",
			password: "hunter2",
			verifier: "hunter2extra",
			want:     false,
		},
		{
			name:     "empty plaintext verifier rejects non-empty password",
			password: "anything",
			verifier: "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := VerifyPassword(tt.password, tt.verifier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, valid)
		})
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("pw", "$argon2id$not-a-real-hash")
	require.Error(t, err)
}

func TestVerifyPasswordWithRehash(t *testing.T) {
	t.Run("legacy plaintext is upgraded", func(t *testing.T) {
		valid, newHash, err := VerifyPasswordWithRehash("hunter2", "hunter2")
		require.NoError(t, err)
		assert.True(t, valid)
		require.True(t, strings.HasPrefix(newHash, "$argon2id$"))

		upgraded, err := VerifyPassword("hunter2", newHash)
		require.NoError(t, err)
		assert.True(t, upgraded)
	})

	t.Run("current hash is not rehashed", func(t *testing.T) {
		hash, err := HashPassword("hunter2")
		require.NoError(t, err)

		valid, newHash, err := VerifyPasswordWithRehash("hunter2", hash)
		require.NoError(t, err)
		assert.True(t, valid)
		assert.Empty(t, newHash)
	})

	t.Run("wrong password is never rehashed", func(t *testing.T) {
		valid, newHash, err := VerifyPasswordWithRehash("wrong", "hunter2")
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Empty(t, newHash)
	})
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	t.Run("nil verifier always fails", func(t *testing.T) {
		valid, newHash, err := VerifyPasswordTimingSafe("anything", nil)
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Empty(t, newHash)
	})

	t.Run("empty verifier always fails", func(t *testing.T) {
		empty := ""
		valid, _, err := VerifyPasswordTimingSafe("anything", &empty)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("present verifier behaves like normal verify", func(t *testing.T) {
		hash, err := HashPassword("hunter2")
		require.NoError(t, err)

		valid, _, err := VerifyPasswordTimingSafe("hunter2", &hash)
		require.NoError(t, err)
		assert.True(t, valid)

		valid, _, err = VerifyPasswordTimingSafe("wrong", &hash)
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.False(t, needsRehash(hash))

	assert.True(t, needsRehash("plaintext"))
	assert.True(t, needsRehash("$argon2id$garbage"))

	// Stale parameters force an upgrade.
	stale := "$argon2id$v=19$m=32768,t=1,p=4$c29tZXNhbHQ$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	assert.True(t, needsRehash(stale))
}
