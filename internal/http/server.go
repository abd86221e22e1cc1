// Package http provides the HTTP server hosting the OAuth protocol
// endpoints, health checks, and the metrics server.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/e0ipso/simple-oauth-21-sub003/internal/config"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/metrics"
	oauthHTTP "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/http"
	oauthService "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/service"
	oauthUseCase "github.com/e0ipso/simple-oauth-21-sub003/internal/oauth/usecase"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Routes are registered separately
// with SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDeps bundles everything SetupRouter needs to register the OAuth
// protocol endpoints.
type RouterDeps struct {
	Config *config.Config

	DeviceAuthorization *oauthHTTP.DeviceAuthorizationHandler
	Token               *oauthHTTP.TokenHandler
	DeviceVerification  *oauthHTTP.DeviceVerificationHandler
	Revocation          *oauthHTTP.RevocationHandler
	Introspection       *oauthHTTP.IntrospectionHandler

	// ClientRepository and SecretService feed ClientAuthMiddleware on the
	// authenticated endpoints.
	ClientRepository oauthUseCase.ClientRepository
	SecretService    oauthService.SecretService

	// MeterProvider enables HTTP request metrics when non-nil.
	MeterProvider metric.MeterProvider
}

// SetupRouter builds the gin router: base middleware (recovery, request
// id, logging, optional CORS and metrics), health endpoints, and the
// OAuth protocol routes.
func (s *Server) SetupRouter(deps RouterDeps) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if deps.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MeterProvider, deps.Config.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(
		deps.Config.CORSEnabled,
		deps.Config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	clientAuth := oauthHTTP.ClientAuthMiddleware(deps.ClientRepository, deps.SecretService, s.logger)

	oauth := router.Group("/oauth")
	{
		oauth.POST("/device_authorization", deps.DeviceAuthorization.DeviceAuthorizationHandler)

		tokenHandlers := []gin.HandlerFunc{}
		if deps.Config.RateLimitTokenEnabled {
			tokenHandlers = append(tokenHandlers, oauthHTTP.TokenRateLimitMiddleware(
				deps.Config.RateLimitTokenRequestsPerSec,
				deps.Config.RateLimitTokenBurst,
				s.logger,
			))
		}
		tokenHandlers = append(tokenHandlers, clientAuth, deps.Token.TokenHandler)
		oauth.POST("/token", tokenHandlers...)

		oauth.GET("/device", deps.DeviceVerification.LookupHandler)
		oauth.POST("/device", deps.DeviceVerification.DecisionHandler)

		oauth.POST("/revoke", clientAuth, deps.Revocation.RevokeHandler)
		oauth.POST("/introspect", clientAuth, deps.Introspection.IntrospectHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized: call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
