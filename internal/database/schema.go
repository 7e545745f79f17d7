package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

const (
	PromptTypeSQLGenerator      string = "sql_generator"
	PromptTypeResponseGenerator string = "response_generator"
)

type ChatSession struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserEmail string         `gorm:"size:255;not null;index"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`

	Role    string `gorm:"size:20;not null"` // 'user' or 'assistant'
	Content string `gorm:"type:text;not null"`

	CreatedAt time.Time
}

type Prompt struct {
	ID uint `gorm:"primaryKey"`

	Type     string `gorm:"size:40;not null;index"`
	Prompt   string `gorm:"type:text;not null"`
	IsActive bool   `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
