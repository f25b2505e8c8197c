package controllers

import (
	"net/http"
	"strings"

	"github.com/terra-legacy/terra-backend/api/responses"
	"github.com/terra-legacy/terra-backend/api/validators"
	blogsvc "github.com/terra-legacy/terra-backend/internal/blogs"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

type createBlogRequest struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Author    string   `json:"author" validate:"required,max=80"`
	Excerpt   *string  `json:"excerpt,omitempty"`
	Body      string   `json:"body" validate:"required"`
	HeroImage *string  `json:"hero_image,omitempty" validate:"omitempty,url"`
	Tags      []string `json:"tags,omitempty"`
}

type updateBlogRequest struct {
	Title     *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Author    *string  `json:"author,omitempty" validate:"omitempty,max=80"`
	Excerpt   *string  `json:"excerpt,omitempty"`
	Body      *string  `json:"body,omitempty"`
	HeroImage *string  `json:"hero_image,omitempty" validate:"omitempty,url"`
	Tags      []string `json:"tags,omitempty"`
}

// AdminBlogList serves all articles, drafts included.
func AdminBlogList(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := blogsvc.ListFilters{
			Author: strings.TrimSpace(r.URL.Query().Get("author")),
			Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		}

		items, next, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// AdminBlogCreate drafts a new article.
func AdminBlogCreate(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createBlogRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Create(r.Context(), blogsvc.CreateInput{
			Title:     strings.TrimSpace(body.Title),
			Author:    strings.TrimSpace(body.Author),
			Excerpt:   body.Excerpt,
			Body:      body.Body,
			HeroImage: body.HeroImage,
			Tags:      body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

// AdminBlogUpdate applies a partial update to an article.
func AdminBlogUpdate(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateBlogRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Update(r.Context(), id, blogsvc.UpdateInput{
			Title:     body.Title,
			Author:    body.Author,
			Excerpt:   body.Excerpt,
			Body:      body.Body,
			HeroImage: body.HeroImage,
			Tags:      body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminBlogPublish flips an article live.
func AdminBlogPublish(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Publish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminBlogUnpublish pulls an article back to draft.
func AdminBlogUnpublish(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Unpublish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminBlogDelete removes an article.
func AdminBlogDelete(svc blogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "postId")
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
