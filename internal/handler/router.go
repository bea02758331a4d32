package handler

import (
	"net/http"
	"time"

	"shelfie/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine: security headers and request ids on every
// route, CORS for allowedOrigin on everything except the health routes
func NewRouter(h *Handler, allowedOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestID())

	// Health routes are mounted before CORS so a foreign Origin never gets a 403
	h.RegisterHealth(r)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowedOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h.RegisterAPI(r)

	r.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	})
	return r
}
