package http

import "github.com/gin-gonic/gin"

// Register attaches the public auth routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.GET("/session", h.session)
	rg.GET("/google/url", h.googleURL)
	rg.GET("/google/callback", h.googleCallback)
}

// RegisterProtected attaches auth routes that require a session.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.DELETE("/account", h.deleteAccount)
}
