package controllers

import (
	"net/http"

	"github.com/terra-legacy/terra-backend/api/responses"
	forumsvc "github.com/terra-legacy/terra-backend/internal/forums"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

// AdminForumLock locks a topic against further replies.
func AdminForumLock(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topicID, err := parseUUIDParam(r, "topicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		topic, err := svc.Lock(r.Context(), topicID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, topic)
	}
}

// AdminForumUnlock reopens a locked topic.
func AdminForumUnlock(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topicID, err := parseUUIDParam(r, "topicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		topic, err := svc.Unlock(r.Context(), topicID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, topic)
	}
}

// AdminForumDeleteTopic removes a topic and everything under it.
func AdminForumDeleteTopic(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topicID, err := parseUUIDParam(r, "topicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTopic(r.Context(), topicID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminForumDeletePost removes a single reply from a topic.
func AdminForumDeletePost(svc forumsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topicID, err := parseUUIDParam(r, "topicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		postID, err := parseUUIDParam(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePost(r.Context(), topicID, postID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
