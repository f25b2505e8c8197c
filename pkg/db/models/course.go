package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/enums"
)

// Course represents an educational offering with ordered lessons.
type Course struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string            `gorm:"column:title;not null"`
	Slug        string            `gorm:"column:slug;not null;uniqueIndex"`
	Summary     *string           `gorm:"column:summary"`
	Level       enums.CourseLevel `gorm:"column:level;type:text;not null;default:'beginner'"`
	ImageURL    *string           `gorm:"column:image_url"`
	PriceCents  int64             `gorm:"column:price_cents;not null;default:0"`
	IsPublished bool              `gorm:"column:is_published;not null;default:false"`
	Lessons     []CourseLesson    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// CourseLesson is a single unit of course content.
type CourseLesson struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CourseID  uuid.UUID `gorm:"column:course_id;type:uuid;not null"`
	Position  int       `gorm:"column:position;not null"`
	Title     string    `gorm:"column:title;not null"`
	Body      *string   `gorm:"column:body"`
	VideoURL  *string   `gorm:"column:video_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
