package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/evidentia/evidence-store/api/v1"
)

// GetIndexStatus returns the search index refresher status (GET /index)
func (h *Handler) GetIndexStatus(c *gin.Context) {
	c.JSON(http.StatusOK, v1.NewIndexStatus(h.indexSrv.GetStatus()))
}

// RebuildIndex rebuilds the search index and waits for it. Authenticated
// callers only (POST /index)
func (h *Handler) RebuildIndex(c *gin.Context) {
	if !h.requireAuthenticated(c) {
		return
	}

	if _, err := h.indexSrv.Rebuild(c.Request.Context()); err != nil {
		h.writeError(c, err, "failed to rebuild search index")
		return
	}

	c.JSON(http.StatusOK, v1.NewIndexStatus(h.indexSrv.GetStatus()))
}
