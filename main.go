package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/glimora/glimora-backend-go/config"
	"github.com/glimora/glimora-backend-go/database"
	customMiddleware "github.com/glimora/glimora-backend-go/middleware"
	"github.com/glimora/glimora-backend-go/routes"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.MetricsMiddleware)

	// Connect to MongoDB
	if err := database.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}
	if err := database.SeedOrderCounter(ctx); err != nil {
		log.Fatal("Failed to seed order counter:", err)
	}

	// Setup routes
	routes.SetupRoutes(e)

	// Start the server
	port := config.GetEnv("PORT", "3000")
	e.Logger.Fatal(e.Start(":" + port))
}
