package course

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/terra-legacy/terra-backend/pkg/db"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/money"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
	"github.com/terra-legacy/terra-backend/pkg/slug"
)

// LessonInput carries one lesson in a course submission.
type LessonInput struct {
	Title    string
	Body     *string
	VideoURL *string
}

// CreateInput carries a new course draft. Price is the display string
// entered by editors, e.g. "$49.00".
type CreateInput struct {
	Title    string
	Summary  *string
	Level    enums.CourseLevel
	ImageURL *string
	Price    string
	Lessons  []LessonInput
}

// UpdateInput carries a partial course update.
type UpdateInput struct {
	Title    *string
	Summary  *string
	Level    *enums.CourseLevel
	ImageURL *string
	Price    *string
}

// Service exposes course administration and public reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CourseDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CourseDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) (*CourseDTO, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*CourseDTO, error)
	ReplaceLessons(ctx context.Context, id uuid.UUID, lessons []LessonInput) (*CourseDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CourseDTO, error)
	GetBySlug(ctx context.Context, slugValue string) (*CourseDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]CourseDTO, string, error)
}

type service struct {
	repo *Repository
}

// NewService wires the course service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, stderrors.New("course repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CourseDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New(errors.CodeValidation, "title is required")
	}
	level := input.Level
	if level == "" {
		level = enums.CourseLevelBeginner
	}
	if !level.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid course level %q", input.Level))
	}

	priceCents := int64(0)
	if strings.TrimSpace(input.Price) != "" {
		parsed, err := money.ParseDisplay(input.Price)
		if err != nil {
			return nil, errors.Wrap(errors.CodeValidation, err, "price is invalid")
		}
		priceCents = parsed
	}

	lessons, err := buildLessons(input.Lessons)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:         uuid.New(),
		Title:      title,
		Slug:       slug.Make(title),
		Summary:    input.Summary,
		Level:      level,
		ImageURL:   input.ImageURL,
		PriceCents: priceCents,
		Lessons:    lessons,
	}

	created, err := s.repo.Create(ctx, course)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_courses_slug") {
			return nil, errors.New(errors.CodeConflict, "a course with this title already exists")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "creating course")
	}
	return NewCourseDTO(created), nil
}

func buildLessons(inputs []LessonInput) ([]models.CourseLesson, error) {
	lessons := make([]models.CourseLesson, 0, len(inputs))
	for i, input := range inputs {
		if strings.TrimSpace(input.Title) == "" {
			return nil, errors.New(errors.CodeValidation, fmt.Sprintf("lesson %d is missing a title", i+1))
		}
		lessons = append(lessons, models.CourseLesson{
			ID:       uuid.New(),
			Position: i + 1,
			Title:    strings.TrimSpace(input.Title),
			Body:     input.Body,
			VideoURL: input.VideoURL,
		})
	}
	return lessons, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CourseDTO, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading course")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.New(errors.CodeValidation, "title cannot be empty")
		}
		course.Title = title
		course.Slug = slug.Make(title)
	}
	if input.Summary != nil {
		course.Summary = input.Summary
	}
	if input.Level != nil {
		if !input.Level.IsValid() {
			return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid course level %q", *input.Level))
		}
		course.Level = *input.Level
	}
	if input.ImageURL != nil {
		course.ImageURL = input.ImageURL
	}
	if input.Price != nil {
		parsed, err := money.ParseDisplay(*input.Price)
		if err != nil {
			return nil, errors.Wrap(errors.CodeValidation, err, "price is invalid")
		}
		course.PriceCents = parsed
	}

	updated, err := s.repo.Update(ctx, course)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_courses_slug") {
			return nil, errors.New(errors.CodeConflict, "a course with this title already exists")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "updating course")
	}
	return NewCourseDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "loading course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting course")
	}
	return nil
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*CourseDTO, error) {
	return s.setPublished(ctx, id, true)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*CourseDTO, error) {
	return s.setPublished(ctx, id, false)
}

func (s *service) setPublished(ctx context.Context, id uuid.UUID, published bool) (*CourseDTO, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading course")
	}
	course.IsPublished = published
	updated, err := s.repo.Update(ctx, course)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating course")
	}
	return NewCourseDTO(updated), nil
}

func (s *service) ReplaceLessons(ctx context.Context, id uuid.UUID, inputs []LessonInput) (*CourseDTO, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading course")
	}

	lessons, err := buildLessons(inputs)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		lessons[i].CourseID = course.ID
	}

	if err := s.repo.ReplaceLessons(ctx, course.ID, lessons); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "replacing lessons")
	}

	fresh, err := s.repo.FindByID(ctx, course.ID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "reloading course")
	}
	return NewCourseDTO(fresh), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CourseDTO, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading course")
	}
	return NewCourseDTO(course), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*CourseDTO, error) {
	course, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading course")
	}
	return NewCourseDTO(course), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]CourseDTO, string, error) {
	if filters.Level != "" && !filters.Level.IsValid() {
		return nil, "", errors.New(errors.CodeValidation, fmt.Sprintf("invalid course level %q", filters.Level))
	}
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing courses")
	}
	return NewCourseDTOs(rows), next, nil
}

func notFoundOrDependency(err error, action string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "course not found")
	}
	return errors.Wrap(errors.CodeDependency, err, action)
}
