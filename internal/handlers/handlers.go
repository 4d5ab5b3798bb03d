package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/evidentia/evidence-store/api/v1"
	"github.com/evidentia/evidence-store/internal/auth"
	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/internal/services"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
)

type RecordService interface {
	Categories() []*services.Category
	Category(name string) (*services.Category, error)
}

type StatisticsService interface {
	Summary(ctx context.Context, filter *models.StatisticsFilter) (services.StatisticsSummary, error)
}

type IndexService interface {
	GetStatus() models.IndexStatus
	Rebuild(ctx context.Context) (int64, error)
}

type Handler struct {
	recordSrv     RecordService
	statisticsSrv StatisticsService
	indexSrv      IndexService
	paging        v1.PageDefaults
	logger        *zap.SugaredLogger
}

func New(paging v1.PageDefaults, recordSrv RecordService, statisticsSrv StatisticsService, indexSrv IndexService) *Handler {
	return &Handler{
		recordSrv:     recordSrv,
		statisticsSrv: statisticsSrv,
		indexSrv:      indexSrv,
		paging:        paging,
		logger:        zap.S().Named("handler"),
	}
}

// RegisterRoutes registers every endpoint on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.GetHealth)
	router.GET("/categories", h.GetCategories)
	router.GET("/explain/:category", h.Explain)
	router.GET("/index", h.GetIndexStatus)
	router.POST("/index", h.RebuildIndex)
	router.GET("/statistics/summary", h.GetStatisticsSummary)

	for _, c := range h.recordSrv.Categories() {
		group := router.Group("/" + c.Name)
		group.GET("", h.ListRecords(c))
		if c.HasIdentity() {
			group.GET("/lookup", h.LookupRecords(c))
			group.GET("/:id", h.GetRecord(c))
		}
	}
}

// GetHealth reports liveness (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetCategories lists the served categories (GET /categories)
func (h *Handler) GetCategories(c *gin.Context) {
	names := make([]string, 0)
	for _, cat := range h.recordSrv.Categories() {
		names = append(names, cat.Name)
	}
	c.JSON(http.StatusOK, gin.H{"categories": names})
}

// requireAuthenticated writes 401 and returns false for anonymous callers.
func (h *Handler) requireAuthenticated(c *gin.Context) bool {
	if (auth.Identity{}).IsAnonymous(c.Request.Context()) {
		h.writeError(c, srvErrors.NewUnauthorizedError("authentication required"), "")
		return false
	}
	return true
}

// writeError maps err to its status code. Unexpected errors are logged with msg
// and reported without detail.
func (h *Handler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case srvErrors.IsInvalidArgumentError(err):
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
	case srvErrors.IsUnauthorizedError(err):
		c.Header("WWW-Authenticate", `Bearer realm="evidence-store"`)
		c.JSON(http.StatusUnauthorized, v1.Error{Error: err.Error()})
	case srvErrors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, v1.Error{Error: err.Error()})
	default:
		_ = c.Error(err)
		h.logger.Errorw(msg, "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: msg})
	}
}
