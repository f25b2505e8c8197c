package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a community happening promoted on the site.
type Event struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	Description *string    `gorm:"column:description"`
	Venue       string     `gorm:"column:venue;not null"`
	City        string     `gorm:"column:city;not null"`
	ImageURL    *string    `gorm:"column:image_url"`
	StartsAt    time.Time  `gorm:"column:starts_at;not null"`
	EndsAt      *time.Time `gorm:"column:ends_at"`
	Capacity    *int       `gorm:"column:capacity"`
	IsPublished bool       `gorm:"column:is_published;not null;default:false"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
