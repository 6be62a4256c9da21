package handlers

import (
	"database/sql"

	"github.com/aperezdev/quoting-portal/internal/mailer"
	"github.com/gin-gonic/gin"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB   *sql.DB       // Connection pool for all request/quote queries
	Mail mailer.Sender // Carrier notification channel (may be simulated)
}

// respond writes the portal's uniform JSON envelope. Every endpoint,
// success or failure, answers with {success, message, data}.
func respond(c *gin.Context, status int, success bool, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": success,
		"message": message,
		"data":    data,
	})
}
