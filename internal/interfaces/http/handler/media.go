package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ObjectReader reads stored image bytes by key
type ObjectReader interface {
	Get(key string) (data []byte, contentType string, ok bool)
}

// MediaHandler serves images when object storage is disabled
type MediaHandler struct {
	BaseHandler
	objects ObjectReader
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(objects ObjectReader) *MediaHandler {
	return &MediaHandler{objects: objects}
}

// Serve handles GET /media/*key
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	data, contentType, ok := h.objects.Get(key)
	if !ok {
		h.NotFound(c, "Image not found")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
