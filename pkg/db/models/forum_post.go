package models

import (
	"time"

	"github.com/google/uuid"
)

// ForumPost is a reply within a forum topic.
type ForumPost struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TopicID    uuid.UUID `gorm:"column:topic_id;type:uuid;not null;index"`
	AuthorName string    `gorm:"column:author_name;not null"`
	Body       string    `gorm:"column:body;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
