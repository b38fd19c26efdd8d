package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gohan-planner/internal/app"
	"gohan-planner/internal/auth"
	"gohan-planner/internal/logger"

	"github.com/gin-gonic/gin"
)

// Options configures the HTTP server.
type Options struct {
	Addr               string
	DataDir            string
	CORSAllowedOrigins []string
	Production         bool
}

// Server serves the JSON API and the HTML views.
type Server struct {
	Engine *gin.Engine

	app     *app.App
	gate    *auth.Gate
	log     *logger.Logger
	dataDir string
	srv     *http.Server
}

// New builds the router. Every page goes through the access gate; API routes
// other than login, logout and health require a session of their own.
func New(application *app.App, gate *auth.Gate, log *logger.Logger, opts Options) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	renderer, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		app:     application,
		gate:    gate,
		log:     log.With("component", "http"),
		dataDir: opts.DataDir,
	}

	r := gin.New()
	r.HTMLRender = renderer
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(corsMiddleware(opts.CORSAllowedOrigins))
	}
	s.routes(r)
	s.Engine = r

	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/login", s.apiLogin)
		api.POST("/logout", s.apiLogout)
		api.GET("/health", s.health)
	}

	protected := api.Group("")
	protected.Use(requireSession(s.gate))
	{
		protected.POST("/generate-plan", s.generatePlan)
		protected.GET("/plan", s.getPlan)
		protected.PUT("/plan", s.putPlan)
		protected.POST("/plan/regenerate", s.regeneratePlan)
		protected.GET("/shopping", s.getShopping)
		protected.GET("/favorites", s.listFavorites)
		protected.POST("/favorites", s.addFavorite)
		protected.POST("/favorites/toggle", s.toggleFavorite)
		protected.DELETE("/favorites/:id", s.deleteFavorite)
	}

	pages := r.Group("")
	pages.Use(pageGate(s.gate))
	{
		pages.GET("/login", s.loginPage)
		pages.POST("/login", s.loginSubmit)
		pages.GET("/", s.indexPage)
		pages.POST("/generate", s.generatePage)
		pages.GET("/shopping", s.shoppingPage)
		pages.GET("/favorites", s.favoritesPage)
		pages.POST("/favorites/toggle", s.toggleFavoritePage)
		pages.POST("/favorites/remove", s.removeFavoritePage)
	}

	r.NoRoute(pageGate(s.gate), func(c *gin.Context) {
		c.String(http.StatusNotFound, "404 page not found")
	})
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
