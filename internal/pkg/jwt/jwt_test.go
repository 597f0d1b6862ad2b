package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	s, err := NewSigner("secret", "admin")
	require.NoError(t, err)

	token, err := s.Sign("user-1", "sess-1", time.Hour)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestParseRejectsOtherAudience(t *testing.T) {
	admin, err := NewSigner("shared", "admin")
	require.NoError(t, err)
	site, err := NewSigner("shared", "site")
	require.NoError(t, err)

	token, err := site.Sign("user-1", "", time.Hour)
	require.NoError(t, err)

	_, err = admin.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	s, err := NewSigner("secret", "admin")
	require.NoError(t, err)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := s.Sign("user-1", "", time.Hour)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("  ", "admin")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
