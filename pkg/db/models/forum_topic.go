package models

import (
	"time"

	"github.com/google/uuid"
)

// ForumTopic represents a discussion thread started by a visitor.
type ForumTopic struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title      string      `gorm:"column:title;not null"`
	Body       string      `gorm:"column:body;not null"`
	Category   string      `gorm:"column:category;not null"`
	AuthorName string      `gorm:"column:author_name;not null"`
	IsLocked   bool        `gorm:"column:is_locked;not null;default:false"`
	ReplyCount int         `gorm:"column:reply_count;not null;default:0"`
	Posts      []ForumPost `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
