package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/evidentia/evidence-store/api/v1"
)

// GetStatisticsSummary returns record totals per kind and status
// (GET /statistics/summary)
func (h *Handler) GetStatisticsSummary(c *gin.Context) {
	filter, err := v1.BindStatisticsFilter(c.Request.URL.Query())
	if err != nil {
		h.writeError(c, err, "")
		return
	}

	s, err := h.statisticsSrv.Summary(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err, "failed to summarize statistics")
		return
	}

	c.JSON(http.StatusOK, v1.NewStatisticsSummary(s.Total, s.ByKind, s.ByStatus, s.Groups))
}
