package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrically/metrically-backend/internal/auth"
	"github.com/metrically/metrically-backend/internal/auth/domain"
	"github.com/metrically/metrically-backend/internal/auth/service"
)

func setupSessionRouter(t *testing.T) (*gin.Engine, *auth.SessionProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := auth.NewSessionProvider()
	t.Cleanup(sessions.Close)

	handler := New(nil, nil, nil, sessions)
	r := gin.New()
	handler.Register(r.Group("/auth"))
	return r, sessions
}

func TestSession_ReportsLoadingBeforeResolution(t *testing.T) {
	r, _ := setupSessionRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"loading":true`)
	assert.Contains(t, rr.Body.String(), `"user":null`)
}

func TestSession_ReflectsSignIn(t *testing.T) {
	r, sessions := setupSessionRouter(t)

	sessions.Start(context.Background(), func(context.Context) (*domain.Identity, error) {
		return nil, nil
	})
	sessions.Publish(auth.SessionEvent{User: &domain.Identity{UserID: "user-1", Email: "a@b.c"}})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s := sessions.Current(); s.User != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"loading":false`)
	assert.Contains(t, rr.Body.String(), "user-1")
}

func TestLogout_SignsSessionOut(t *testing.T) {
	r, sessions := setupSessionRouter(t)

	sessions.Start(context.Background(), func(context.Context) (*domain.Identity, error) {
		return &domain.Identity{UserID: "user-1", Email: "a@b.c"}, nil
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s := sessions.Current(); !s.Loading {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s := sessions.Current(); s.User == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Nil(t, sessions.Current().User)
}

func TestGoogleURL_UnconfiguredIsUnavailable(t *testing.T) {
	r, _ := setupSessionRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/google/url", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func setupOAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := auth.NewSessionProvider()
	t.Cleanup(sessions.Close)

	oauth := service.NewGoogleOAuth("client-id", "client-secret", "http://localhost/cb", "state-secret", nil)
	handler := New(nil, oauth, nil, sessions)
	r := gin.New()
	handler.Register(r.Group("/auth"))
	return r
}

// The callback must refuse a code exchange unless the state round-trips
// from our own /google/url mint.
func TestGoogleCallback_RejectsUnknownState(t *testing.T) {
	r := setupOAuthRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid state")
}

func TestGoogleCallback_RejectsMissingState(t *testing.T) {
	r := setupOAuthRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid state")
}
