package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wealthwise/internal/models"
)

const testSecret = "test-secret-key-that-is-32-bytes!!"

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Username: "alice"}

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager(testSecret, time.Hour, NewRevocationList(0, time.Hour))
		token, err := m.Generate(user)
		require.NoError(t, err)

		claims, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("each token has its own ID", func(t *testing.T) {
		m := NewJWTManager(testSecret, time.Hour, nil)
		t1, err := m.Generate(user)
		require.NoError(t, err)
		t2, err := m.Generate(user)
		require.NoError(t, err)
		c1, err := m.Validate(t1)
		require.NoError(t, err)
		c2, err := m.Validate(t2)
		require.NoError(t, err)
		assert.NotEqual(t, c1.ID, c2.ID)
	})

	t.Run("expired token", func(t *testing.T) {
		m := NewJWTManager(testSecret, -time.Minute, nil)
		token, err := m.Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager(testSecret, time.Hour, nil).Generate(user)
		require.NoError(t, err)
		_, err = NewJWTManager("another-secret-that-is-32-bytes-long", time.Hour, nil).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		claims := &Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = NewJWTManager(testSecret, time.Hour, nil).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewJWTManager(testSecret, time.Hour, nil).Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		m := NewJWTManager(testSecret, time.Hour, NewRevocationList(10, time.Hour))
		token, err := m.Generate(user)
		require.NoError(t, err)
		claims, err := m.Validate(token)
		require.NoError(t, err)

		m.Revoke(claims)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrRevokedToken)

		other, err := m.Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(other)
		assert.NoError(t, err, "revoking one token must not affect others")
	})
}

func TestRevocationList(t *testing.T) {
	r := NewRevocationList(2, time.Hour)
	r.Add("")
	assert.Equal(t, 0, r.Len())

	r.Add("a")
	r.Add("b")
	assert.True(t, r.Contains("a"))
	assert.False(t, r.Contains("c"))

	r.Add("c")
	assert.Equal(t, 2, r.Len())
	assert.False(t, r.Contains("a"), "oldest entry is evicted at capacity")

	var nilList *RevocationList
	nilList.Add("x")
	assert.False(t, nilList.Contains("x"))

	short := NewRevocationList(10, 20*time.Millisecond)
	short.Add("x")
	assert.Eventually(t, func() bool { return !short.Contains("x") }, time.Second, 10*time.Millisecond)
}
