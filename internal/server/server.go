package server

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/alkime/promo/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	router   *gin.Engine
	sessions *SessionStore
	proxies  []netip.Prefix
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	logger.Debug("Configured trusted proxies", "proxies", cfg.TrustedProxies)

	proxies, err := parseProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	assets, err := static.EmbedFolder(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to mount static assets: %w", err)
	}

	server := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		sessions: NewSessionStore(cfg.SessionTTL),
		proxies:  proxies,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	router.Use(static.Serve("/static", assets))
	server.setupRoutes(newSessionStore(cfg, logger))

	return server, nil
}

// Router exposes the HTTP handler (used by tests).
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(store sessions.Store) {
	s.router.GET("/health", s.handleHealth)

	wiz := s.router.Group("/", sessions.Sessions(sessionCookie, store), s.sessionMiddleware)
	{
		wiz.GET("/", s.handleIndex)
		wiz.GET("/state", s.handleState)
		wiz.POST("/advance", s.handleAdvance)
		wiz.POST("/reset", s.handleReset)
		wiz.POST("/image", s.handleSelectImage)
		wiz.POST("/form", s.handleForm)
		wiz.POST("/recording/start", s.handleRecordingStart)
		wiz.POST("/recording/stop", s.handleRecordingStop)
		wiz.GET("/share/:platform", s.handleShare)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "promo",
	})
}
