package blog

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
)

// BlogPostDTO is the transport shape for an article.
type BlogPostDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Author      string     `json:"author"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Body        string     `json:"body"`
	HeroImage   *string    `json:"hero_image,omitempty"`
	Tags        []string   `json:"tags"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewBlogPostDTO maps the model into its transport shape.
func NewBlogPostDTO(post *models.BlogPost) *BlogPostDTO {
	return &BlogPostDTO{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Author:      post.Author,
		Excerpt:     post.Excerpt,
		Body:        post.Body,
		HeroImage:   post.HeroImage,
		Tags:        post.Tags,
		IsPublished: post.IsPublished,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// NewBlogPostDTOs maps a slice of posts.
func NewBlogPostDTOs(posts []models.BlogPost) []BlogPostDTO {
	out := make([]BlogPostDTO, 0, len(posts))
	for i := range posts {
		out = append(out, *NewBlogPostDTO(&posts[i]))
	}
	return out
}
