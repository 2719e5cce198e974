package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue("ops@example.com", []string{AdminRole}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, []string{AdminRole}, claims.Roles)
}

func TestJWTVerifier_Verify(t *testing.T) {
	const secret = "test-secret"
	issue := func(t *testing.T, secret string, roles []string, expiry time.Duration) string {
		t.Helper()
		token, err := NewJWTIssuer(secret).Issue("ops", roles, expiry)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"admin token", issue(t, secret, []string{"viewer", AdminRole}, time.Hour), false},
		{"missing admin role", issue(t, secret, []string{"viewer"}, time.Hour), true},
		{"wrong secret", issue(t, "other", []string{AdminRole}, time.Hour), true},
		{"expired", issue(t, secret, []string{AdminRole}, -time.Minute), true},
		{"garbage", "not.a.jwt", true},
	}

	verifier := NewJWTVerifier(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := verifier.Verify(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ops", subject)
		})
	}
}

func TestJWTVerifier_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{AdminRole},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTVerifier("test-secret").Verify(token)
	require.Error(t, err)
}
