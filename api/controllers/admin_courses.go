package controllers

import (
	"net/http"
	"strings"

	"github.com/terra-legacy/terra-backend/api/responses"
	"github.com/terra-legacy/terra-backend/api/validators"
	coursesvc "github.com/terra-legacy/terra-backend/internal/courses"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

type lessonRequest struct {
	Title    string  `json:"title" validate:"required,max=200"`
	Body     *string `json:"body,omitempty"`
	VideoURL *string `json:"video_url,omitempty" validate:"omitempty,url"`
}

type createCourseRequest struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Summary  *string         `json:"summary,omitempty"`
	Level    string          `json:"level,omitempty"`
	ImageURL *string         `json:"image_url,omitempty" validate:"omitempty,url"`
	Price    string          `json:"price,omitempty"`
	Lessons  []lessonRequest `json:"lessons,omitempty" validate:"omitempty,dive"`
}

type updateCourseRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Summary  *string `json:"summary,omitempty"`
	Level    *string `json:"level,omitempty"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Price    *string `json:"price,omitempty"`
}

type replaceLessonsRequest struct {
	Lessons []lessonRequest `json:"lessons" validate:"required,dive"`
}

func parseCourseLevel(raw string) (enums.CourseLevel, error) {
	level := enums.CourseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if !level.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown course level")
	}
	return level, nil
}

func toLessonInputs(lessons []lessonRequest) []coursesvc.LessonInput {
	inputs := make([]coursesvc.LessonInput, 0, len(lessons))
	for _, lesson := range lessons {
		inputs = append(inputs, coursesvc.LessonInput{
			Title:    strings.TrimSpace(lesson.Title),
			Body:     lesson.Body,
			VideoURL: lesson.VideoURL,
		})
	}
	return inputs
}

// AdminCourseList serves all courses, drafts included.
func AdminCourseList(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := coursesvc.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("level")); raw != "" {
			level, err := parseCourseLevel(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.Level = level
		}

		items, next, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// AdminCourseCreate drafts a new course with its lessons.
func AdminCourseCreate(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createCourseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coursesvc.CreateInput{
			Title:    strings.TrimSpace(body.Title),
			Summary:  body.Summary,
			ImageURL: body.ImageURL,
			Price:    strings.TrimSpace(body.Price),
			Lessons:  toLessonInputs(body.Lessons),
		}
		if raw := strings.TrimSpace(body.Level); raw != "" {
			level, err := parseCourseLevel(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Level = level
		}

		course, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, course)
	}
}

// AdminCourseUpdate applies a partial update to a course.
func AdminCourseUpdate(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCourseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coursesvc.UpdateInput{
			Title:    body.Title,
			Summary:  body.Summary,
			ImageURL: body.ImageURL,
			Price:    body.Price,
		}
		if body.Level != nil {
			level, err := parseCourseLevel(*body.Level)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Level = &level
		}

		course, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, course)
	}
}

// AdminCourseReplaceLessons swaps the full lesson list in order.
func AdminCourseReplaceLessons(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body replaceLessonsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.ReplaceLessons(r.Context(), id, toLessonInputs(body.Lessons))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, course)
	}
}

// AdminCoursePublish flips a course live.
func AdminCoursePublish(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.Publish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, course)
	}
}

// AdminCourseUnpublish pulls a course back to draft.
func AdminCourseUnpublish(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.Unpublish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, course)
	}
}

// AdminCourseDelete removes a course and its lessons.
func AdminCourseDelete(svc coursesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
