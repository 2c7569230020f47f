package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unispace/unispace/internal/ai"
	"github.com/unispace/unispace/internal/api"
	"github.com/unispace/unispace/internal/catalog"
	"github.com/unispace/unispace/internal/config"
	"github.com/unispace/unispace/internal/repository"
	"github.com/unispace/unispace/internal/repository/memory"
	"github.com/unispace/unispace/internal/repository/redis"
	"github.com/unispace/unispace/internal/service"
	"github.com/unispace/unispace/internal/web"
)

func main() {
	serverConfig := config.GetServerConfig()
	redisConfig := config.GetRedisConfig()
	aiConfig := config.GetAIConfig()

	// Initialize the booking repository
	var repo repository.Repository
	if redisConfig.Enabled {
		redisRepo, err := redis.NewRepository(redisConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer func() {
			if err := redisRepo.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}()
		log.Printf("Using Redis repository at %s:%s", redisConfig.Host, redisConfig.Port)
		repo = redisRepo
	} else {
		log.Println("Using in-memory repository")
		repo = memory.NewRepository()
	}

	// Initialize the service layer and seed the room catalog
	bookingService := service.NewBookingService(repo)
	if err := bookingService.SeedRooms(context.Background(), catalog.DefaultRooms()); err != nil {
		log.Fatalf("Failed to seed rooms: %v", err)
	}

	// Initialize the Gemini recommender if an API key is configured.
	// Without one, search requests fall back to the full room list.
	var recommender api.Recommender
	if aiConfig.IsAIConfigValid() {
		aiClient, err := ai.NewClient(context.Background(), aiConfig)
		if err != nil {
			log.Fatalf("Failed to initialize AI client: %v", err)
		}
		defer func() {
			if err := aiClient.Close(); err != nil {
				log.Printf("Error closing AI client: %v", err)
			}
		}()
		log.Printf("AI room recommendations enabled (model %s)", aiConfig.Model)
		recommender = aiClient
	} else {
		log.Println("GEMINI_API_KEY not set; AI room recommendations disabled")
	}

	// Set up web UI routes
	webHandler, err := web.NewHandler(bookingService, recommender, serverConfig.TemplatesDir, serverConfig.StaticDir)
	if err != nil {
		log.Fatalf("Failed to initialize web handler: %v", err)
	}

	// Register the SSE update callback with the booking service
	bookingService.RegisterUpdateCallback(webHandler.NotifyBookingUpdate)

	// Set up API routes
	mux := api.SetupRoutes(bookingService, recommender)

	// Set up web UI routes
	webHandler.SetupRoutes(mux)

	// Configure the HTTP server
	server := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      web.WrapMuxWithMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE connections
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Printf("Starting unispace server on port %s", serverConfig.Port)
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until a signal is received or an error occurs
	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting server: %v", err)

	case <-shutdown:
		log.Println("Shutting down server...")

		// First, shutdown the web handler to close SSE connections
		webHandler.Shutdown()

		// Create a deadline to wait for
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Doesn't block if there are no connections, but will otherwise
		// wait until the timeout deadline.
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			log.Fatalf("Error shutting down server: %v", err)
		}

		log.Println("Server gracefully stopped")
	}
}
