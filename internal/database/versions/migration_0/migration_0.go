package migration_0

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Snapshot of the schema as of this migration. Later migrations must not
// reference the live types in internal/database.

type ChatSession struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserEmail string         `gorm:"size:255;not null;index"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role      string    `gorm:"size:20;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

type Prompt struct {
	ID       uint   `gorm:"primaryKey"`
	Type     string `gorm:"size:40;not null;index"`
	Prompt   string `gorm:"type:text;not null"`
	IsActive bool   `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&ChatSession{}, &ChatMessage{}, &Prompt{})
}
