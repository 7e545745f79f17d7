package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chatbot-backend/internal/database"
	"chatbot-backend/internal/llm"
	"chatbot-backend/internal/query"

	"gorm.io/gorm"
)

// QueryExecutor is the execution contract the orchestrator needs from the
// warehouse layer.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlText string) query.Outcome
}

// ConversationService is the public entry point of the pipeline. It holds no
// per-call state; concurrent Answer calls share only the database.
type ConversationService struct {
	db        *gorm.DB
	completer llm.Completer
	executor  QueryExecutor
}

func NewConversationService(db *gorm.DB, completer llm.Completer, executor QueryExecutor) *ConversationService {
	return &ConversationService{db: db, completer: completer, executor: executor}
}

// Answer runs the full pipeline for one question: generate SQL, execute it,
// synthesize a natural-language answer over the user's history, then persist
// both turns. Execution failure is forwarded to the response stage as data;
// generation failure aborts the call.
func (s *ConversationService) Answer(ctx context.Context, question, userEmail string) (string, error) {
	generation, err := s.generateSQL(ctx, question)
	if err != nil {
		s.logFailure("generate_sql", userEmail, question, err)
		return "", err
	}
	slog.Info("generated sql", "user_email", userEmail, "query", generation.Query, "explanation", generation.Explanation)

	outcome := s.executor.Execute(ctx, generation.Query)
	if !outcome.Success {
		slog.Warn("query execution returned failure outcome", "user_email", userEmail, "error", outcome.Error)
	}

	history := s.loadHistory(ctx, userEmail)

	answer, err := s.generateResponse(ctx, question, outcome, history)
	if err != nil {
		s.logFailure("generate_response", userEmail, question, err)
		return "", err
	}

	// History durability is best-effort relative to answering: the computed
	// answer is returned even if persistence fails.
	if err := s.persistTurns(ctx, userEmail, question, answer.Response); err != nil {
		s.logFailure("persist", userEmail, question, err)
	}

	return answer.Response, nil
}

func (s *ConversationService) generateSQL(ctx context.Context, question string) (SQLGeneration, error) {
	prompt, err := LatestPrompt(ctx, s.db, database.PromptTypeSQLGenerator)
	if err != nil {
		return SQLGeneration{}, err
	}
	return GenerateSQL(ctx, s.completer, prompt.Prompt, question)
}

func (s *ConversationService) generateResponse(ctx context.Context, question string, outcome query.Outcome, history []database.ChatMessage) (ChatAnswer, error) {
	prompt, err := LatestPrompt(ctx, s.db, database.PromptTypeResponseGenerator)
	if err != nil {
		return ChatAnswer{}, err
	}

	serialized, err := serializeOutcome(outcome)
	if err != nil {
		return ChatAnswer{}, err
	}

	return GenerateResponse(ctx, s.completer, prompt.Prompt, question, serialized, history)
}

// loadHistory degrades to an empty history on any load failure. A missing
// session is the normal first-contact case, not an error.
func (s *ConversationService) loadHistory(ctx context.Context, userEmail string) []database.ChatMessage {
	session, err := SessionByEmail(ctx, s.db, userEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("error loading session, continuing with empty history", "user_email", userEmail, "error", err)
		}
		return nil
	}

	messages, err := SessionMessages(ctx, s.db, session.ID)
	if err != nil {
		slog.Error("error loading history, continuing with empty history", "user_email", userEmail, "error", err)
		return nil
	}
	return messages
}

func (s *ConversationService) persistTurns(ctx context.Context, userEmail, question, answer string) error {
	session, err := GetOrCreateSession(ctx, s.db, userEmail)
	if err != nil {
		return fmt.Errorf("error getting session: %w", err)
	}
	if err := AppendMessage(ctx, s.db, session.ID, database.RoleUser, question); err != nil {
		return fmt.Errorf("error appending user turn: %w", err)
	}
	if err := AppendMessage(ctx, s.db, session.ID, database.RoleAssistant, answer); err != nil {
		return fmt.Errorf("error appending assistant turn: %w", err)
	}
	return nil
}

func (s *ConversationService) logFailure(stage, userEmail, question string, err error) {
	args := []any{"stage", stage, "user_email", userEmail, "question", truncate(question, 120), "error", err}

	var malformed *MalformedOutputError
	if errors.As(err, &malformed) {
		// The raw model output is logged for diagnosis but never surfaced to
		// the end user.
		args = append(args, "raw_output", truncate(malformed.Raw, 500))
	}

	slog.Error("conversation pipeline failure", args...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
