package forum

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
)

// PostDTO is the transport shape for a reply.
type PostDTO struct {
	ID         uuid.UUID `json:"id"`
	TopicID    uuid.UUID `json:"topic_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopicDTO is the transport shape for a discussion thread.
type TopicDTO struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category"`
	AuthorName string    `json:"author_name"`
	IsLocked   bool      `json:"is_locked"`
	ReplyCount int       `json:"reply_count"`
	Posts      []PostDTO `json:"posts,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewPostDTO maps a reply into its transport shape.
func NewPostDTO(post *models.ForumPost) *PostDTO {
	return &PostDTO{
		ID:         post.ID,
		TopicID:    post.TopicID,
		AuthorName: post.AuthorName,
		Body:       post.Body,
		CreatedAt:  post.CreatedAt,
	}
}

// NewTopicDTO maps a topic and its loaded replies into their transport shape.
func NewTopicDTO(topic *models.ForumTopic) *TopicDTO {
	posts := make([]PostDTO, 0, len(topic.Posts))
	for i := range topic.Posts {
		posts = append(posts, *NewPostDTO(&topic.Posts[i]))
	}
	return &TopicDTO{
		ID:         topic.ID,
		Title:      topic.Title,
		Body:       topic.Body,
		Category:   topic.Category,
		AuthorName: topic.AuthorName,
		IsLocked:   topic.IsLocked,
		ReplyCount: topic.ReplyCount,
		Posts:      posts,
		CreatedAt:  topic.CreatedAt,
		UpdatedAt:  topic.UpdatedAt,
	}
}

// NewTopicDTOs maps a slice of topics without replies.
func NewTopicDTOs(topics []models.ForumTopic) []TopicDTO {
	out := make([]TopicDTO, 0, len(topics))
	for i := range topics {
		dto := NewTopicDTO(&topics[i])
		dto.Posts = nil
		out = append(out, *dto)
	}
	return out
}
