package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatbot-backend/cmd"
	"chatbot-backend/internal/api"
	"chatbot-backend/internal/bot"
	"chatbot-backend/internal/chat"
	"chatbot-backend/internal/database"
	"chatbot-backend/internal/llm"
	"chatbot-backend/internal/query"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type APIConfig struct {
	DatabaseURL          string  `env:"DATABASE_URL,notEmpty,required"`
	WarehouseDatabaseURL string  `env:"WAREHOUSE_DATABASE_URL,notEmpty,required"`
	OpenAIModel          string  `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	OpenAITemperature    float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.2"`
	MaxQueryRows         int     `env:"MAX_QUERY_ROWS" envDefault:"1000"`
	SeedPrompts          bool    `env:"SEED_PROMPTS" envDefault:"false"`
	APIPort              string  `env:"API_PORT" envDefault:"8001"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.SeedPrompts {
		cmd.SeedDefaultPrompts(context.Background(), db)
	}

	warehouse, err := query.OpenWarehouse(cfg.WarehouseDatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to warehouse: %v", err)
	}
	defer warehouse.Close()

	executor := query.NewExecutor(warehouse, cfg.MaxQueryRows)
	completer := llm.NewOpenAIChat(cfg.OpenAIModel, cfg.OpenAITemperature, 50*time.Second)
	conversations := chat.NewConversationService(db, completer, executor)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	chatbotHandler := api.NewChatbotService(db, conversations)
	chatbotHandler.AddRoutes(r)

	botHandler := bot.NewService(conversations)
	botHandler.AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
