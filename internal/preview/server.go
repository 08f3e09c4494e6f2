// Package preview serves a credential form in the browser. It plays the
// parent role: every browser tab owns a session whose value snapshot is
// updated over a websocket and re-rendered with the vanilla renderer.
package preview

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/render/template/pongo"
	"github.com/goliatone/go-credform/pkg/renderers/vanilla"
	"github.com/goliatone/go-credform/pkg/validation"
)

//go:embed page.tmpl
var pageFS embed.FS

const (
	// DefaultSessionTTL is the sliding expiry of idle sessions.
	DefaultSessionTTL = 30 * time.Minute
	defaultListen     = "127.0.0.1:8080"
	shutdownTimeout   = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator checks every change. Without one each change is rendered once.
func WithValidator(v validation.Validator) Option {
	return func(s *Server) {
		s.validator = v
	}
}

// WithRenderer replaces the vanilla renderer.
func WithRenderer(r render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithTheme applies theme tokens and partials to every render.
func WithTheme(cfg *render.ThemeConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithLocale selects the label locale.
func WithLocale(accessor locale.Accessor) Option {
	return func(s *Server) {
		if accessor != nil {
			s.locale = accessor
		}
	}
}

// WithListen sets the listen address used by Run.
func WithListen(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.listen = addr
		}
	}
}

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// Server is the preview HTTP server.
type Server struct {
	props     form.Props
	renderer  render.Renderer
	validator validation.Validator
	theme     *render.ThemeConfig
	locale    locale.Accessor
	logger    *zap.Logger
	listen    string
	ttl       time.Duration

	sessions *cache.Cache
	page     *pongo.Engine
	engine   *gin.Engine
}

// New builds a server whose sessions start from props.
func New(props form.Props, options ...Option) (*Server, error) {
	s := &Server{
		props:  props,
		logger: zap.NewNop(),
		locale: locale.Static(locale.Default),
		listen: defaultListen,
		ttl:    DefaultSessionTTL,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		s.renderer = renderer
	}

	page, err := pongo.New(pongo.WithFS(pageFS), pongo.WithExtension(".tmpl"))
	if err != nil {
		return nil, fmt.Errorf("preview: page template: %w", err)
	}
	s.page = page
	s.sessions = cache.New(s.ttl, s.ttl/2)
	s.engine = s.routes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/", s.handleIndex)
	r.GET("/form/:session", s.handleForm)
	r.GET("/ws/:session", s.handleSocket)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.StaticFS("/assets", http.FS(vanilla.AssetsFS()))
	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := s.newSession()
	markup, err := s.render(c.Request.Context(), sess)
	if err != nil {
		s.logger.Error("render form", zap.String("session", sess.id), zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}

	page, err := s.page.RenderTemplate("page.tmpl", map[string]any{
		"session":    sess.id,
		"form":       string(markup),
		"endpoint":   socketPath(sess.id),
		"stylesheet": "/assets/" + vanilla.StylesheetName,
	})
	if err != nil {
		s.logger.Error("render page", zap.String("session", sess.id), zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) handleForm(c *gin.Context) {
	sess, ok := s.lookup(c.Param("session"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	markup, err := s.render(c.Request.Context(), sess)
	if err != nil {
		s.logger.Error("render form", zap.String("session", sess.id), zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, s.renderer.ContentType(), markup)
}

// Run listens until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", zap.String("addr", s.listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("preview server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview: shutdown: %w", err)
	}
	return nil
}

func socketPath(id string) string {
	return "/ws/" + id
}
