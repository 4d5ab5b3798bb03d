package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/evidentia/evidence-store/api/v1"
	"github.com/evidentia/evidence-store/internal/services"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
)

// ListRecords returns a page of records (GET /{category})
func (h *Handler) ListRecords(cat *services.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cat.Authenticated && !h.requireAuthenticated(c) {
			return
		}

		q := c.Request.URL.Query()
		pageable, err := v1.BindPageable(q, h.paging)
		if err != nil {
			h.writeError(c, err, "")
			return
		}

		page, err := cat.List(c.Request.Context(), q, pageable)
		if err != nil {
			h.writeError(c, err, "failed to list "+cat.Name)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

// GetRecord returns one record (GET /{category}/{id})
func (h *Handler) GetRecord(cat *services.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cat.Authenticated && !h.requireAuthenticated(c) {
			return
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			h.writeError(c, srvErrors.NewInvalidArgumentError("id", "must be an integer"), "")
			return
		}

		record, err := cat.Get(c.Request.Context(), id)
		if err != nil {
			h.writeError(c, err, "failed to get "+cat.Name)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

// LookupRecords returns the visible records among the given ids
// (GET /{category}/lookup?ids=1,2,3)
func (h *Handler) LookupRecords(cat *services.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cat.Authenticated && !h.requireAuthenticated(c) {
			return
		}

		var ids []int64
		for _, v := range c.QueryArray("ids") {
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s == "" {
					continue
				}
				id, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					h.writeError(c, srvErrors.NewInvalidArgumentError("ids", "invalid id "+strconv.Quote(s)), "")
					return
				}
				ids = append(ids, id)
			}
		}

		records, err := cat.Lookup(c.Request.Context(), ids)
		if err != nil {
			h.writeError(c, err, "failed to look up "+cat.Name)
			return
		}

		c.JSON(http.StatusOK, records)
	}
}

// Explain returns the statements composed for a list request without running
// them. Authenticated callers only (GET /explain/{category})
func (h *Handler) Explain(c *gin.Context) {
	if !h.requireAuthenticated(c) {
		return
	}

	cat, err := h.recordSrv.Category(c.Param("category"))
	if err != nil {
		h.writeError(c, err, "")
		return
	}

	q := c.Request.URL.Query()
	pageable, err := v1.BindPageable(q, h.paging)
	if err != nil {
		h.writeError(c, err, "")
		return
	}

	e, err := cat.Explain(c.Request.Context(), q, pageable)
	if err != nil {
		h.writeError(c, err, "failed to explain "+cat.Name)
		return
	}

	c.JSON(http.StatusOK, v1.Explanation{
		Category: e.Category,
		Record:   e.Record,
		Key:      e.Key,
		CountKey: e.CountKey,
		Count:    e.Count,
		Select:   e.Select,
		Params:   e.Params,
	})
}
