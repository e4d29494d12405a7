package api

import (
	"log"
	stdhttp "net/http"

	"eticket/internal/config"
	"eticket/internal/http/handlers"
	"eticket/internal/http/middleware"
	"eticket/internal/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes. m may be nil, in which case no
// metrics are recorded and /metrics is not mounted.
func NewRouter(env config.Env, h *handlers.Handler, m *metrics.Metrics) *gin.Engine {
	handlers.RegisterValidation()

	r := gin.New()
	r.MaxMultipartMemory = h.MaxLogoBytes + 1<<20
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CorsOrigins))
	if m != nil {
		r.Use(middleware.Metrics(m))
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	requireAuth := middleware.RequireAuth(h.Auth)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", handlers.Routes(r))

		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/export.xlsx", requireAuth, h.ExportBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/ticket", h.BookingTicket)

		api.POST("/tickets", h.GenerateTicket)
		api.POST("/branding/logo", h.UploadLogo)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		api.GET("/users/:id", requireAuth, h.GetUser)
	}

	return r
}
