package api

import (
	"errors"
	"log/slog"
	"net/http"

	"chatbot-backend/internal/chat"
	"chatbot-backend/internal/database"
	"chatbot-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// genericFailureMessage is the only text a caller sees for fatal pipeline
// errors. Internal causes are logged, never leaked.
const genericFailureMessage = "could not process your request"

type ChatbotService struct {
	db            *gorm.DB
	conversations *chat.ConversationService
}

func NewChatbotService(db *gorm.DB, conversations *chat.ConversationService) *ChatbotService {
	return &ChatbotService{db: db, conversations: conversations}
}

func (s *ChatbotService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chatbot/answer", RestHandler(s.Answer))
		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", RestHandler(s.GetPrompts))
			r.Post("/", RestHandler(s.CreatePrompt))
		})
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", RestHandler(s.GetSession))
			r.Get("/{session_id}/history", RestHandler(s.GetHistory))
		})
	})
}

func (s *ChatbotService) Answer(r *http.Request) (any, error) {
	req, err := ParseRequest[api.AnswerRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Message == "" || req.UserEmail == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "missing required fields: message, user_email")
	}

	slog.Info("received chatbot question", "user_email", req.UserEmail)

	response, err := s.conversations.Answer(r.Context(), req.Message, req.UserEmail)
	if err != nil {
		// The cause was already logged with stage context by the pipeline.
		return nil, CodedErrorf(http.StatusInternalServerError, genericFailureMessage)
	}

	return api.AnswerResponse{Response: response}, nil
}

func (s *ChatbotService) CreatePrompt(r *http.Request) (any, error) {
	req, err := ParseRequest[api.CreatePromptRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Type != database.PromptTypeSQLGenerator && req.Type != database.PromptTypeResponseGenerator {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "invalid prompt type %q", req.Type)
	}
	if req.Prompt == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "prompt text is required")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	prompt := database.Prompt{Type: req.Type, Prompt: req.Prompt, IsActive: isActive}
	if err := chat.CreatePrompt(r.Context(), s.db, &prompt); err != nil {
		slog.Error("error creating prompt", "type", req.Type, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create prompt")
	}

	return convertPrompt(prompt), nil
}

func (s *ChatbotService) GetPrompts(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.GetPromptsParams](r)
	if err != nil {
		return nil, err
	}

	prompts, err := chat.GetPrompts(r.Context(), s.db, params.Type)
	if err != nil {
		slog.Error("error listing prompts", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to list prompts")
	}

	resp := make([]api.PromptResponse, 0, len(prompts))
	for _, prompt := range prompts {
		resp = append(resp, convertPrompt(prompt))
	}
	return resp, nil
}

func (s *ChatbotService) GetSession(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.GetSessionParams](r)
	if err != nil {
		return nil, err
	}
	if params.UserEmail == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing user_email query parameter")
	}

	session, err := chat.SessionByEmail(r.Context(), s.db, params.UserEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "no session for user")
		}
		slog.Error("error getting session", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving session")
	}

	return api.SessionResponse{
		ID:        session.ID,
		UserEmail: session.UserEmail,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}, nil
}

func (s *ChatbotService) GetHistory(r *http.Request) (any, error) {
	sessionID, err := URLParamUUID(r, "session_id")
	if err != nil {
		return nil, err
	}

	if _, err := chat.GetSession(r.Context(), s.db, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "session not found")
		}
		slog.Error("error getting session", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving session")
	}

	messages, err := chat.SessionMessages(r.Context(), s.db, sessionID)
	if err != nil {
		slog.Error("error getting history", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving history")
	}

	resp := make([]api.ChatHistoryItem, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, api.ChatHistoryItem{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return resp, nil
}

func convertPrompt(prompt database.Prompt) api.PromptResponse {
	return api.PromptResponse{
		ID:        prompt.ID,
		Type:      prompt.Type,
		Prompt:    prompt.Prompt,
		IsActive:  prompt.IsActive,
		CreatedAt: prompt.CreatedAt,
	}
}
