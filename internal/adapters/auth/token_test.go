package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitycalendar/internal/domain"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)
	team := "team-7"

	token, err := issuer.Issue(domain.Principal{
		UserID: "user-123",
		Email:  "u@example.com",
		Roles:  []string{domain.RoleAdmin, domain.RoleMember},
		TeamID: &team,
	}, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, []string{"admin", "member"}, claims.Roles)
	assert.Equal(t, "team-7", *claims.TeamID)
}

func TestJWTVerifier_Verify(t *testing.T) {
	issuer := NewJWTIssuer("secret")
	verifier := NewJWTVerifier("secret")

	valid, err := issuer.Issue(domain.Principal{UserID: "user-1", Roles: []string{domain.RoleMember}}, time.Hour)
	require.NoError(t, err)
	expired, err := issuer.Issue(domain.Principal{UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)
	otherSecret, err := NewJWTIssuer("other").Issue(domain.Principal{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)
	noSubject, err := issuer.Issue(domain.Principal{}, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", valid, false},
		{"expired", expired, true},
		{"wrong secret", otherSecret, true},
		{"no subject", noSubject, true},
		{"alg none", none, true},
		{"garbage", "not-a-token", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := verifier.Verify(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", p.UserID)
			assert.False(t, p.IsAdmin())
			assert.Nil(t, p.TeamID)
		})
	}
}
