package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lessonclash/internal/config"
	"lessonclash/internal/database"
	"lessonclash/internal/handlers"
	"lessonclash/internal/repository"
	"lessonclash/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	lessonRepo := repository.NewLessonRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.ReportEmail, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	lessonService := service.NewLessonService(lessonRepo)
	playerService := service.NewPlayerService(lessonRepo, progressRepo, responseRepo, emailService, cfg.MaxLives, cfg.SaveDebounce)

	// Initialize handlers
	lessonHandler := handlers.NewLessonHandler(lessonService)
	playHandler := handlers.NewPlayHandler(playerService)

	// Setup routes
	mux := http.NewServeMux()

	// Lesson catalogue
	mux.HandleFunc("GET /lessons", lessonHandler.List)
	mux.HandleFunc("GET /lessons/{lessonId}", lessonHandler.Get)

	// Playback routes
	mux.HandleFunc("POST /play/start/{lessonId}", playHandler.Start)
	mux.HandleFunc("GET /play/state", playHandler.State)
	mux.HandleFunc("POST /play/answer", playHandler.Answer)
	mux.HandleFunc("POST /play/move", playHandler.Move)
	mux.HandleFunc("POST /play/drag/start", playHandler.DragStart)
	mux.HandleFunc("POST /play/drag/hover", playHandler.DragHover)
	mux.HandleFunc("POST /play/drag/drop", playHandler.DragDrop)
	mux.HandleFunc("POST /play/drag/cancel", playHandler.DragCancel)
	mux.HandleFunc("POST /play/check", playHandler.Check)
	mux.HandleFunc("POST /play/advance", playHandler.Advance)
	mux.HandleFunc("POST /play/exit", playHandler.Exit)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Flush pending progress writes before the database closes
	playerService.Shutdown()
}
