package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrically/metrically-backend/internal/auth/domain"
)

func TestIssueAndParseToken(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour)

	user := &domain.User{ID: "user-1", Email: "a@b.c"}
	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a", time.Hour)
	verifier := NewAuthService(nil, "secret-b", time.Hour)

	token, err := issuer.IssueToken(&domain.User{ID: "user-1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", -time.Minute)

	token, err := svc.IssueToken(&domain.User{ID: "user-1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour)

	_, err := svc.ParseToken("not.a.token")
	assert.Error(t, err)
}
