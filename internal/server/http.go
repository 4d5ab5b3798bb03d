package server

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/evidentia/evidence-store/internal/auth"
	"github.com/evidentia/evidence-store/internal/config"
	"github.com/evidentia/evidence-store/internal/server/middlewares"
	"github.com/evidentia/evidence-store/pkg/certificates"
)

const (
	ProductionServer string = "prod"
	DevServer        string = "dev"
	apiV1            string = "/api/v1"
)

type Server struct {
	srv *http.Server
}

// NewServer builds the HTTP server. Handlers registered by registerHandlerFn are
// served under /api/v1 behind request id, logging, recovery, timeout and
// authentication middlewares; /metrics exposes the prometheus registry.
func NewServer(cfg *config.Configuration, authenticator *auth.Authenticator, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	gin.SetMode(gin.DebugMode)
	if cfg.Server.ServerMode == ProductionServer {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Server.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Server.ServerMode == ProductionServer {
		if cfg.Server.StaticsFolder != "" {
			serveStatics(engine, cfg.Server.StaticsFolder)
		}

		cert, key, err := certificates.GenerateSelfSignedCertificate(time.Now().AddDate(1, 0, 0))
		if err != nil {
			return nil, fmt.Errorf("failed to generate server's certificates: %w", err)
		}

		tlsConfig, err := certificates.TLSConfig(cert, key)
		if err != nil {
			return nil, err
		}

		srv.TLSConfig = tlsConfig
	}

	router := engine.Group(apiV1)

	router.Use(
		middlewares.RequestID(),
		middlewares.Logger(),
		ginzap.RecoveryWithZap(zap.S().Desugar(), true),
		middlewares.Timeout(cfg.Store.StatementTimeout),
		middlewares.Authenticate(authenticator),
	)

	registerHandlerFn(router)

	return &Server{srv: srv}, nil
}

func serveStatics(engine *gin.Engine, folder string) {
	engine.Static("/static", folder)
	engine.StaticFile("/", path.Join(folder, "index.html"))
	engine.StaticFile("/favicon.ico", path.Join(folder, "favicon.ico"))

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "API endpoint not found",
			})
			return
		}
		c.File(path.Join(folder, "index.html"))
	})
}

// Start starts the HTTP or HTTPS server based on TLS configuration.
func (r *Server) Start(ctx context.Context) error {
	if r.srv.TLSConfig != nil {
		return r.srv.ListenAndServeTLS("", "")
	}
	return r.srv.ListenAndServe()
}

func (r *Server) Stop(ctx context.Context) {
	if err := r.srv.Shutdown(ctx); err != nil {
		zap.S().Named("server").Errorw("server shutdown", "error", err)
	}
}
