package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BlogPost represents a marketing-site article.
type BlogPost struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex"`
	Author      string         `gorm:"column:author;not null"`
	Excerpt     *string        `gorm:"column:excerpt"`
	Body        string         `gorm:"column:body;not null"`
	HeroImage   *string        `gorm:"column:hero_image"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	IsPublished bool           `gorm:"column:is_published;not null;default:false"`
	PublishedAt *time.Time     `gorm:"column:published_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
