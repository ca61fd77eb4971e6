package http

import "github.com/gin-gonic/gin"

// Register attaches profile routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
	rg.POST("", h.submit)
	rg.PATCH("/draft", h.draft)
}
