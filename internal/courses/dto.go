package course

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/money"
)

// LessonDTO is the transport shape for a course lesson.
type LessonDTO struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
	Title    string    `json:"title"`
	Body     *string   `json:"body,omitempty"`
	VideoURL *string   `json:"video_url,omitempty"`
}

// CourseDTO is the transport shape for a course.
type CourseDTO struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Summary     *string           `json:"summary,omitempty"`
	Level       enums.CourseLevel `json:"level"`
	ImageURL    *string           `json:"image_url,omitempty"`
	PriceCents  int64             `json:"price_cents"`
	Price       string            `json:"price"`
	IsPublished bool              `json:"is_published"`
	Lessons     []LessonDTO       `json:"lessons"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewCourseDTO maps the model into its transport shape.
func NewCourseDTO(course *models.Course) *CourseDTO {
	lessons := make([]LessonDTO, 0, len(course.Lessons))
	for _, lesson := range course.Lessons {
		lessons = append(lessons, LessonDTO{
			ID:       lesson.ID,
			Position: lesson.Position,
			Title:    lesson.Title,
			Body:     lesson.Body,
			VideoURL: lesson.VideoURL,
		})
	}
	return &CourseDTO{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.Slug,
		Summary:     course.Summary,
		Level:       course.Level,
		ImageURL:    course.ImageURL,
		PriceCents:  course.PriceCents,
		Price:       money.FormatCents(course.PriceCents),
		IsPublished: course.IsPublished,
		Lessons:     lessons,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}

// NewCourseDTOs maps a slice of courses.
func NewCourseDTOs(courses []models.Course) []CourseDTO {
	out := make([]CourseDTO, 0, len(courses))
	for i := range courses {
		out = append(out, *NewCourseDTO(&courses[i]))
	}
	return out
}
