package http

import (
	"github.com/metrically/metrically-backend/internal/auth"
	"github.com/metrically/metrically-backend/internal/auth/service"
)

// Handler bundles the dependencies for auth HTTP endpoints.
type Handler struct {
	svc      *service.AuthService
	oauth    *service.GoogleOAuth
	account  *service.AccountService
	sessions *auth.SessionProvider
}

func New(svc *service.AuthService, oauth *service.GoogleOAuth, account *service.AccountService, sessions *auth.SessionProvider) *Handler {
	return &Handler{svc: svc, oauth: oauth, account: account, sessions: sessions}
}
