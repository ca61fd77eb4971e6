package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/metrically/metrically-backend/internal/auth"
	"github.com/metrically/metrically-backend/internal/auth/domain"
)

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	h.sessions.Publish(auth.SessionEvent{User: &domain.Identity{UserID: user.ID, Email: user.Email}})
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": user, "token": token})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	h.sessions.Publish(auth.SessionEvent{User: &domain.Identity{UserID: user.ID, Email: user.Email}})
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user, "token": token})
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Publish(auth.SessionEvent{User: nil})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) me(c *gin.Context) {
	userID := auth.UserID(c)
	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// deleteAccount removes the user's data and account, then signs the
// session out.
func (h *Handler) deleteAccount(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.account.Delete(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to delete account"})
		return
	}
	h.sessions.Publish(auth.SessionEvent{User: nil})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// session exposes the provider's current {user, loading} snapshot.
func (h *Handler) session(c *gin.Context) {
	state := h.sessions.Current()
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": state.User, "loading": state.Loading})
}

func (h *Handler) googleURL(c *gin.Context) {
	if h.oauth == nil || !h.oauth.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "google sign-in not configured"})
		return
	}
	state, err := h.oauth.NewState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to start sign-in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "url": h.oauth.AuthURL(state), "state": state})
}

func (h *Handler) googleCallback(c *gin.Context) {
	if h.oauth == nil || !h.oauth.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "google sign-in not configured"})
		return
	}

	if err := h.oauth.VerifyState(c.Query("state")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing code"})
		return
	}

	user, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	token, err := h.svc.IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	h.sessions.Publish(auth.SessionEvent{User: &domain.Identity{UserID: user.ID, Email: user.Email}})
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user, "token": token})
}
