package routes

import (
	"net/http"

	"github.com/aperezdev/quoting-portal/internal/handlers"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware opens the portal to any origin: the intake form and
// dashboard are served from plant intranet hosts we do not control.
// Preflight OPTIONS requests are answered with a plain 200.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	// The dao endpoints are POST-only; anything else gets a JSON 405
	// instead of gin's default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"success": false,
			"message": "Method not allowed. Use POST.",
			"data":    nil,
		})
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong!"})
	})

	// --- Portal API (endpoint names kept for the existing clients) ---
	router.POST("/daoSendRequest", h.SendRequest)
	router.POST("/daoGetRequests", h.GetRequests)
	router.POST("/daoGetQuotes", h.GetQuotes)
	router.POST("/daoSelectQuote", h.SelectQuote)

	// --- Browser Clients ---
	router.StaticFile("/", "./web/index.html")
	router.StaticFile("/dashboard", "./web/dashboard.html")
	router.Static("/js", "./web/js")

	return router
}
