package chat

import (
	"context"
	"errors"
	"fmt"

	"chatbot-backend/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LatestPrompt returns the most recently created active prompt for the given
// type. Ties on creation time are broken by the surrogate id so selection is
// reproducible. A missing prompt is a configuration error, not a fallback
// point.
func LatestPrompt(ctx context.Context, db *gorm.DB, promptType string) (database.Prompt, error) {
	var prompt database.Prompt
	err := db.WithContext(ctx).
		Where("type = ? AND is_active = ?", promptType, true).
		Order("created_at DESC, id DESC").
		First(&prompt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return prompt, fmt.Errorf("%w for type %q", ErrNoPrompt, promptType)
	}
	return prompt, err
}

func CreatePrompt(ctx context.Context, db *gorm.DB, prompt *database.Prompt) error {
	return db.WithContext(ctx).Create(prompt).Error
}

func GetPrompts(ctx context.Context, db *gorm.DB, promptType string) ([]database.Prompt, error) {
	var prompts []database.Prompt
	q := db.WithContext(ctx).Order("created_at DESC, id DESC")
	if promptType != "" {
		q = q.Where("type = ?", promptType)
	}
	err := q.Find(&prompts).Error
	return prompts, err
}

// SessionByEmail looks up the conversation session for a user. The
// conversational flow keys sessions by email, not by session id.
func SessionByEmail(ctx context.Context, db *gorm.DB, userEmail string) (database.ChatSession, error) {
	var session database.ChatSession
	err := db.WithContext(ctx).Where("user_email = ?", userEmail).First(&session).Error
	return session, err
}

func GetSession(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) (database.ChatSession, error) {
	var session database.ChatSession
	err := db.WithContext(ctx).First(&session, "id = ?", sessionID).Error
	return session, err
}

// GetOrCreateSession returns the user's session, creating it lazily on first
// contact.
func GetOrCreateSession(ctx context.Context, db *gorm.DB, userEmail string) (database.ChatSession, error) {
	var session database.ChatSession
	err := db.WithContext(ctx).
		Where(database.ChatSession{UserEmail: userEmail}).
		Attrs(database.ChatSession{ID: uuid.New()}).
		FirstOrCreate(&session).Error
	return session, err
}

// SessionMessages returns a session's turns oldest first. The id is the
// deterministic tiebreak for turns created in the same instant.
func SessionMessages(ctx context.Context, db *gorm.DB, sessionID uuid.UUID) ([]database.ChatMessage, error) {
	var messages []database.ChatMessage
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func AppendMessage(ctx context.Context, db *gorm.DB, sessionID uuid.UUID, role, content string) error {
	message := database.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	return db.WithContext(ctx).Create(&message).Error
}
