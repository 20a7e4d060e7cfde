package main

import (
	"chronolex_app_go/config"
	"chronolex_app_go/db"
	"chronolex_app_go/handlers"
	"chronolex_app_go/middleware"
	"chronolex_app_go/models"
	"chronolex_app_go/services"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.TursoDatabaseURL, cfg.TursoAuthToken, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Case{},
		&models.CaseShare{},
		&models.Chronology{},
		&models.ChronologyEntry{},
		&models.Party{},
		&models.Document{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize storage and inference providers
	services.InitializeStorage(cfg)
	services.InitializeInference(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/login", handlers.LoginHandler)
	e.POST("/api/logout", handlers.LogoutHandler)

	// Protected routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.GetCurrentUserHandler)

		// Cases
		api.GET("/cases", handlers.ListCasesHandler)
		api.POST("/cases", handlers.CreateCaseHandler)
		api.GET("/cases/:id", handlers.GetCaseHandler)
		api.PUT("/cases/:id", handlers.UpdateCaseHandler)
		api.DELETE("/cases/:id", handlers.DeleteCaseHandler)

		// Sharing
		api.GET("/cases/:id/shares", handlers.ListCaseSharesHandler)
		api.POST("/cases/:id/shares", handlers.CreateCaseShareHandler)
		api.DELETE("/cases/:id/shares/:shareId", handlers.DeleteCaseShareHandler)

		// Chronologies
		api.GET("/cases/:id/chronologies", handlers.ListChronologiesHandler)
		api.POST("/cases/:id/chronologies", handlers.CreateChronologyHandler)
		api.PUT("/cases/:id/chronologies/:chronologyId", handlers.UpdateChronologyHandler)
		api.PUT("/cases/:id/chronologies/:chronologyId/default", handlers.SetDefaultChronologyHandler)
		api.DELETE("/cases/:id/chronologies/:chronologyId", handlers.DeleteChronologyHandler)

		// Entries
		api.GET("/cases/:id/entries", handlers.ListEntriesHandler)
		api.POST("/cases/:id/entries", handlers.CreateEntryHandler)
		api.PUT("/cases/:id/entries/:entryId", handlers.UpdateEntryHandler)
		api.DELETE("/cases/:id/entries/:entryId", handlers.DeleteEntryHandler)
		api.GET("/cases/:id/entries/export", handlers.ExportEntriesHandler)
		api.POST("/cases/:id/entries/import", handlers.ImportEntriesHandler)

		// Parties
		api.GET("/cases/:id/parties", handlers.ListPartiesHandler)
		api.POST("/cases/:id/parties", handlers.CreatePartyHandler)
		api.PUT("/cases/:id/parties/:partyId", handlers.UpdatePartyHandler)
		api.DELETE("/cases/:id/parties/:partyId", handlers.DeletePartyHandler)

		// Documents
		api.GET("/cases/:id/documents", handlers.ListDocumentsHandler)
		api.POST("/cases/:id/documents", handlers.UploadDocumentsHandler)
		api.GET("/cases/:id/documents/:documentId", handlers.GetDocumentHandler)
		api.GET("/cases/:id/documents/:documentId/download", handlers.DownloadDocumentHandler)
		api.DELETE("/cases/:id/documents/:documentId", handlers.DeleteDocumentHandler)

		// Analysis
		api.POST("/cases/:id/analyze", handlers.AnalyzeDocumentHandler)
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
