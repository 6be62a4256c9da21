package main

import (
	"log"
	"os"

	"github.com/aperezdev/quoting-portal/internal/database"
	"github.com/aperezdev/quoting-portal/internal/handlers"
	"github.com/aperezdev/quoting-portal/internal/mailer"
	"github.com/aperezdev/quoting-portal/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Mailer ---
	// A missing SMTP configuration never blocks intake: the mailer
	// degrades to simulated sends and logs a warning instead.
	mail := mailer.New()

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:   db,
		Mail: mail,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting quoting portal API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
