package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"agendamento/handlers"
	"agendamento/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the booking and city endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/cities", hb.ListCities)

	bookings := api.Group("/bookings")
	{
		bookings.GET("", hb.ListBookings)
		bookings.POST("", hb.CreateBooking)
		bookings.GET("/city/:cityId", hb.ListBookingsByCity)
		bookings.GET("/:id", hb.GetBooking)
		bookings.PUT("/:id", hb.UpdateBooking)
		bookings.POST("/:id/cancel", hb.CancelBooking)
	}
}

// RegisterCDLRoutes sets up the PIN-guarded unavailability endpoints.
func RegisterCDLRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	cdl := api.Group("/cdl")
	{
		cdl.POST("/unavailability", hb.CreateUnavailability)
		cdl.GET("/unavailabilities/:cityId", hb.ListUnavailabilities)
	}
}

// RegisterCalendarRoutes sets up the calendar overlay endpoints.
func RegisterCalendarRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/calendar/:state/:year/:month", hb.MonthCalendar)
	api.GET("/hours/:date", hb.Hours)
	api.GET("/availability/:cityId/:date", hb.Availability)
	api.GET("/stats", hb.Stats)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/health", hb.Health)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	adminGroup := api.Group("/admin")
	{
		adminGroup.Use(middleware.AdminKeyMiddleware(hb.AdminKey))
		adminGroup.GET("/health-detailed", hb.AdminHandler.HealthDetailed)
		adminGroup.POST("/sync-sheets", hb.AdminHandler.SyncSheets)
		adminGroup.POST("/backup", hb.AdminHandler.Backup)
	}
}

// RegisterStatic serves the calendar UI for every path outside /api.
func RegisterStatic(r *gin.Engine, dir string) {
	var files http.Handler
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		files = http.FileServer(http.Dir(dir))
	}
	r.NoRoute(func(c *gin.Context) {
		if files == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rota não encontrada"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	RegisterBookingRoutes(api, hb)
	RegisterCDLRoutes(api, hb)
	RegisterCalendarRoutes(api, hb)
	RegisterHealthRoute(api, hb)
	RegisterAdminRoutes(api, hb)
	RegisterStatic(r, hb.StaticDir)
}
