package controllers

import (
	"net/http"
	"strings"

	"github.com/terra-legacy/terra-backend/api/responses"
	"github.com/terra-legacy/terra-backend/api/validators"
	forumsvc "github.com/terra-legacy/terra-backend/internal/forums"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

type forumTopicRequest struct {
	Title      string `json:"title" validate:"required,min=5,max=200"`
	Body       string `json:"body" validate:"required"`
	Category   string `json:"category" validate:"required"`
	AuthorName string `json:"author_name" validate:"required,max=80"`
}

type forumReplyRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=80"`
	Body       string `json:"body" validate:"required"`
}

// ForumTopicList serves topics, newest first.
func ForumTopicList(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := forumsvc.ListFilters{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		}

		items, next, err := svc.ListTopics(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// ForumTopicDetail serves one topic with its replies in posting order.
func ForumTopicDetail(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topicID, err := parseUUIDParam(r, "topicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		topic, err := svc.GetTopic(r.Context(), topicID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, topic)
	}
}

// ForumTopicCreate opens a new discussion thread.
func ForumTopicCreate(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body forumTopicRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		topic, err := svc.CreateTopic(r.Context(), forumsvc.CreateTopicInput{
			Title:      validators.SanitizeString(body.Title, 200),
			Body:       strings.TrimSpace(body.Body),
			Category:   validators.SanitizeString(body.Category, 60),
			AuthorName: validators.SanitizeString(body.AuthorName, 80),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, topic)
	}
}

// ForumReply appends a post to an open topic.
func ForumReply(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topicID, err := parseUUIDParam(r, "topicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body forumReplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Reply(r.Context(), topicID, forumsvc.ReplyInput{
			AuthorName: validators.SanitizeString(body.AuthorName, 80),
			Body:       strings.TrimSpace(body.Body),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}
