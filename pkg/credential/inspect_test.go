package credential_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notesync/pkg/credential"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	t.Run("valid", func(t *testing.T) {
		token := signed(t, jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})

		info, err := credential.Inspect(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", info.Subject)
		require.NotNil(t, info.ExpiresAt)
		assert.True(t, info.ExpiresAt.Equal(now.Add(time.Hour)))
		assert.False(t, info.Expired(now))
	})

	t.Run("expired", func(t *testing.T) {
		token := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))})
		info, err := credential.Inspect(token)
		require.NoError(t, err)
		assert.True(t, info.Expired(now))
	})

	t.Run("no expiry never expires", func(t *testing.T) {
		info, err := credential.Inspect(signed(t, jwt.RegisteredClaims{Subject: "x"}))
		require.NoError(t, err)
		assert.False(t, info.Expired(now.Add(100*365*24*time.Hour)))
	})

	t.Run("opaque token", func(t *testing.T) {
		_, err := credential.Inspect("not-a-jwt")
		assert.ErrorIs(t, err, credential.ErrNotJWT)

		_, err = credential.Inspect("")
		assert.ErrorIs(t, err, credential.ErrNotJWT)
	})
}
