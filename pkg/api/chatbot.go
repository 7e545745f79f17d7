package api

import (
	"time"

	"github.com/google/uuid"
)

type AnswerRequest struct {
	Message   string `json:"message"`
	UserEmail string `json:"user_email"`
}

type AnswerResponse struct {
	Response string `json:"response"`
}

type CreatePromptRequest struct {
	Type     string `json:"type"` // "sql_generator" or "response_generator"
	Prompt   string `json:"prompt"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type PromptResponse struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Prompt    string    `json:"prompt"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type GetPromptsParams struct {
	Type string `schema:"type"`
}

type GetSessionParams struct {
	UserEmail string `schema:"user_email"`
}

type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatHistoryItem struct {
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
