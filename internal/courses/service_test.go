package course

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/enums"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
)

func setupCourseTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  summary TEXT,
  level TEXT NOT NULL DEFAULT 'beginner',
  image_url TEXT,
  price_cents INTEGER NOT NULL DEFAULT 0,
  is_published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS course_lessons (
  id TEXT PRIMARY KEY,
  course_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  body TEXT,
  video_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func setupCourseService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupCourseTestDB(t)))
	require.NoError(t, err)
	return svc
}

func requireCourseCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestCourseCreateWithLessons(t *testing.T) {
	svc := setupCourseService(t)

	dto, err := svc.Create(context.Background(), CreateInput{
		Title: "Soil Health Fundamentals",
		Level: enums.CourseLevelBeginner,
		Price: "$49.00",
		Lessons: []LessonInput{
			{Title: "What Lives in Your Soil"},
			{Title: "Testing and Amendments"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "soil-health-fundamentals", dto.Slug)
	assert.Equal(t, int64(4900), dto.PriceCents)
	assert.Equal(t, "$49.00", dto.Price)
	require.Len(t, dto.Lessons, 2)
	assert.Equal(t, 1, dto.Lessons[0].Position)
	assert.Equal(t, 2, dto.Lessons[1].Position)
}

func TestCourseCreateValidation(t *testing.T) {
	svc := setupCourseService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Title: ""})
	requireCourseCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{Title: "Pruning", Level: enums.CourseLevel("expert")})
	requireCourseCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{Title: "Pruning", Price: "fifty bucks"})
	requireCourseCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{Title: "Pruning", Lessons: []LessonInput{{Title: "  "}}})
	requireCourseCode(t, err, pkgerrors.CodeValidation)
}

func TestCourseReplaceLessonsReorders(t *testing.T) {
	svc := setupCourseService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Title:   "Seed Starting",
		Lessons: []LessonInput{{Title: "Old Lesson"}},
	})
	require.NoError(t, err)

	updated, err := svc.ReplaceLessons(ctx, created.ID, []LessonInput{
		{Title: "Choosing Trays"},
		{Title: "Light and Heat"},
		{Title: "Hardening Off"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Lessons, 3)
	assert.Equal(t, "Choosing Trays", updated.Lessons[0].Title)
	assert.Equal(t, 3, updated.Lessons[2].Position)
}

func TestCourseFreeByDefault(t *testing.T) {
	svc := setupCourseService(t)

	dto, err := svc.Create(context.Background(), CreateInput{Title: "Intro to Composting"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), dto.PriceCents)
	assert.Equal(t, "$0.00", dto.Price)
	assert.Equal(t, enums.CourseLevelBeginner, dto.Level)
}
