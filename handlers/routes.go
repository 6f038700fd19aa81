package handlers

import (
	"stocks-tracker-web/middleware"
	"stocks-tracker-web/session"

	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	AllowedOrigins []string
	SecureCookies  bool
	// RateLimit is the per-client request rate per second; 0 disables it.
	RateLimit float64
	RateBurst int
}

func SetupRouter(h *Handler, sessions *session.Manager, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(), middleware.Recovery())
	if len(opts.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(opts.AllowedOrigins))
	}
	router.Use(middleware.RateLimiter(opts.RateLimit, opts.RateBurst))

	router.GET("/api/health", Health)

	// Public routes
	public := router.Group("/")
	public.Use(middleware.Error(), middleware.Sessions(sessions, opts.SecureCookies))
	{
		public.POST("/login", h.Login)
		public.POST("/register", h.Register)
		public.POST("/logout", h.Logout)

		public.GET("/dashboard", h.Dashboard)
		public.POST("/dashboard/search", h.Search)
		public.GET("/dashboard/stream", h.Stream)

		public.GET("/news", h.News)
	}

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.Error(), middleware.Sessions(sessions, opts.SecureCookies), middleware.RequireSession())
	{
		auth.GET("/portfolio", h.GetPortfolio)
		auth.POST("/portfolio/add", h.AddStock)
		auth.DELETE("/portfolio/delete/:symbol", h.DeleteStock)
		auth.GET("/suggestions", h.Suggestions)
	}

	return router
}
