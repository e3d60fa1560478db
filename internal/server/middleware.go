package server

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/alkime/promo/internal/config"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "promo_session"
	sessionKey    = "session_id"
)

// setupSecurityMiddleware configures and applies security middleware to the router
func setupSecurityMiddleware(router *gin.Engine, cfg *config.Config, logger *slog.Logger) {
	// Configure HSTS for production only
	stsSeconds := int64(0)
	if cfg.Env == config.EnvProduction {
		stsSeconds = int64(cfg.HSTSMaxAge)
	}

	secureMiddleware := secure.New(secure.Config{
		STSSeconds:            stsSeconds,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: config.BuildCSP(cfg.CSPMode),
	})
	router.Use(secureMiddleware)

	logger.Debug("Configured security middleware",
		"hsts_enabled", cfg.Env == config.EnvProduction,
		"csp_mode", cfg.CSPMode,
	)
}

// sessionMiddleware attaches the caller's wizard state. The signed session
// cookie only carries the state id; a missing, forged or pruned id starts a
// fresh lead.
func (s *Server) sessionMiddleware(c *gin.Context) {
	sess := sessions.Default(c)

	if raw, ok := sess.Get(sessionKey).(string); ok {
		if id, err := uuid.Parse(raw); err == nil && s.sessions.Exists(id) {
			c.Set(sessionKey, id)
			c.Next()

			return
		}
	}

	id := s.sessions.Create()
	sess.Set(sessionKey, id.String())

	if err := sess.Save(); err != nil {
		s.logger.Error("failed to save session", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})

		return
	}

	c.Set(sessionKey, id)
	s.logger.Debug("session started", "session", id.String())

	c.Next()
}

// newSessionStore builds the cookie-backed gin session store. Without a
// configured secret a random key is used, which only lives as long as the process.
func newSessionStore(cfg *config.Config, logger *slog.Logger) memstore.Store {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
		logger.Warn("SESSION_SECRET not set, using a random key")
	}

	store := memstore.NewStore(secret)
	//nolint:exhaustruct // Domain and Partitioned left unset
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0,
		Secure:   cfg.Env == config.EnvProduction,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return store
}

// trustedForwarding reports whether the direct peer may set X-Forwarded-* headers.
func (s *Server) trustedForwarding(c *gin.Context) bool {
	addr, err := netip.ParseAddr(c.RemoteIP())
	if err != nil {
		return false
	}

	for _, p := range s.proxies {
		if p.Contains(addr.Unmap()) {
			return true
		}
	}

	return false
}

// parseProxies accepts CIDRs and bare addresses, like gin's SetTrustedProxies.
func parseProxies(entries []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(entries))

	for _, e := range entries {
		if p, err := netip.ParsePrefix(e); err == nil {
			out = append(out, p.Masked())
			continue
		}

		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", e, err)
		}

		out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}

	return out, nil
}

func sessionID(c *gin.Context) uuid.UUID {
	if id, ok := c.Get(sessionKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}

	return uuid.Nil
}
