package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certbot/internal/domain"
)

func TestJWT_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWT(secret)

	token, err := issuer.Issue("ops@example.com", []string{domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestJWT_Verify(t *testing.T) {
	j := NewJWT("test-secret")
	adminToken, err := j.Issue("ops", []string{domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	viewerToken, err := j.Issue("viewer", []string{"viewer"}, time.Hour)
	require.NoError(t, err)
	expiredToken, err := j.Issue("ops", []string{domain.RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	foreignToken, err := NewJWT("other-secret").Issue("ops", []string{domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	subject, err := j.Verify(adminToken)
	require.NoError(t, err)
	assert.Equal(t, "ops", subject)

	_, err = j.Verify(viewerToken)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = j.Verify(expiredToken)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = j.Verify(foreignToken)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = j.Verify("garbage")
	require.Error(t, err)
}
