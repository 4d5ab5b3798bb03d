package server_test

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evidentia/evidence-store/internal/auth"
	"github.com/evidentia/evidence-store/internal/config"
	"github.com/evidentia/evidence-store/internal/server"
	"github.com/evidentia/evidence-store/internal/server/middlewares"
)

var _ = Describe("HTTP Server", func() {
	var (
		cfg               *config.Configuration
		authenticator     *auth.Authenticator
		registerHandlerFn func(router *gin.RouterGroup)
		tempDir           string
		srv               *server.Server
	)

	start := func() {
		var err error
		srv, err = server.NewServer(cfg, authenticator, registerHandlerFn)
		Expect(err).ToNot(HaveOccurred())

		go func() {
			_ = srv.Start(context.TODO())
		}()
		time.Sleep(100 * time.Millisecond)
	}

	insecureClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "server-test")
		Expect(err).ToNot(HaveOccurred())

		err = os.WriteFile(filepath.Join(tempDir, "index.html"), []byte("<html></html>"), 0o644)
		Expect(err).ToNot(HaveOccurred())
		err = os.WriteFile(filepath.Join(tempDir, "favicon.ico"), []byte(""), 0o644)
		Expect(err).ToNot(HaveOccurred())
		err = os.MkdirAll(filepath.Join(tempDir, "static"), 0o755)
		Expect(err).ToNot(HaveOccurred())

		authenticator = auth.NewAuthenticator(false, "", "evidence-store")
		registerHandlerFn = func(router *gin.RouterGroup) {
			router.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{"status": "ok"})
			})
			router.GET("/whoami", func(c *gin.Context) {
				p, _ := auth.PrincipalFrom(c.Request.Context())
				c.JSON(200, gin.H{"username": p.Username, "anonymous": p.Anonymous})
			})
		}
	})

	AfterEach(func() {
		if srv != nil {
			srv.Stop(context.TODO())
			srv = nil
		}
		os.RemoveAll(tempDir)
	})

	Context("dev server mode", func() {
		BeforeEach(func() {
			cfg = &config.Configuration{
				Server: config.Server{
					ServerMode: server.DevServer,
					HTTPPort:   18080,
				},
			}
		})

		It("serves over HTTP", func() {
			start()

			resp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/v1/health", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
			Expect(resp.Header.Get(middlewares.RequestIDHeader)).NotTo(BeEmpty())
			resp.Body.Close()
		})

		// Given a running server
		// When we scrape the metrics endpoint
		// Then the query engine collectors are exposed
		It("exposes prometheus metrics", func() {
			start()

			resp, err := http.Get(fmt.Sprintf("http://localhost:%d/metrics", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(200))

			body, err := io.ReadAll(resp.Body)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("go_goroutines"))
		})

		It("refuses an invalid bearer token when authentication is enabled", func() {
			authenticator = auth.NewAuthenticator(true, "secret", "evidence-store")
			start()

			req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://localhost:%d/api/v1/whoami", cfg.Server.HTTPPort), nil)
			Expect(err).ToNot(HaveOccurred())
			req.Header.Set("Authorization", "Bearer garbage")

			resp, err := http.DefaultClient.Do(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			resp.Body.Close()
		})
	})

	Context("production server mode", func() {
		BeforeEach(func() {
			cfg = &config.Configuration{
				Server: config.Server{
					ServerMode:    server.ProductionServer,
					HTTPPort:      18443,
					StaticsFolder: tempDir,
				},
			}
		})

		It("serves over HTTPS with TLS", func() {
			start()

			resp, err := insecureClient.Get(fmt.Sprintf("https://localhost:%d/api/v1/health", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
			resp.Body.Close()
		})

		// Given a production server with static files
		// When we request the root path
		// Then it should serve the index.html
		It("serves static index.html at root", func() {
			start()

			resp, err := insecureClient.Get(fmt.Sprintf("https://localhost:%d/", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
			resp.Body.Close()
		})

		// Given a production server
		// When we request a non-existent API route
		// Then it should return 404 with a JSON error
		It("returns 404 JSON for unknown API routes", func() {
			start()

			resp, err := insecureClient.Get(fmt.Sprintf("https://localhost:%d/api/v1/nonexistent", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(404))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/json"))
			resp.Body.Close()
		})

		// Given a production server
		// When we request a non-existent non-API route
		// Then it should serve index.html (SPA fallback)
		It("serves index.html for non-API routes", func() {
			start()

			resp, err := insecureClient.Get(fmt.Sprintf("https://localhost:%d/some/page", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
			resp.Body.Close()
		})

		// Given a running production server
		// When we call Stop
		// Then subsequent requests should fail
		It("stops accepting requests after Stop", func() {
			start()

			// Act
			srv.Stop(context.TODO())
			srv = nil

			// Assert
			_, err := insecureClient.Get(fmt.Sprintf("https://localhost:%d/api/v1/health", cfg.Server.HTTPPort))
			Expect(err).To(HaveOccurred())
		})
	})
})
