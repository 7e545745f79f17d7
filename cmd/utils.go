package cmd

import (
	"context"
	"flag"
	"log"

	"chatbot-backend/internal/chat"
	"chatbot-backend/internal/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

const defaultSQLGeneratorPrompt = `You are a SQL generation assistant for a Postgres business database.
Translate the user's business question into a single valid SQL SELECT statement.
Prefer explicit column lists over SELECT * and never emit statements that modify data.`

const defaultResponseGeneratorPrompt = `You are a business analytics assistant.
Given a user's question and the structured results of a SQL query, answer the question
in clear natural language. If the query failed, apologize and explain the failure simply.`

// SeedDefaultPrompts installs a starter prompt per stage when none exists.
// This is a deployment convenience for fresh databases; at runtime a missing
// prompt still aborts the pipeline.
func SeedDefaultPrompts(ctx context.Context, db *gorm.DB) {
	seed := map[string]string{
		database.PromptTypeSQLGenerator:      defaultSQLGeneratorPrompt,
		database.PromptTypeResponseGenerator: defaultResponseGeneratorPrompt,
	}

	for promptType, text := range seed {
		if _, err := chat.LatestPrompt(ctx, db, promptType); err == nil {
			continue
		}
		prompt := database.Prompt{Type: promptType, Prompt: text, IsActive: true}
		if err := chat.CreatePrompt(ctx, db, &prompt); err != nil {
			log.Fatalf("Failed to seed %s prompt: %v", promptType, err)
		}
		log.Printf("seeded default %s prompt", promptType)
	}
}
