package handler

import (
	"net/http"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	activities, err := h.repository.GetActivitiesByUsername(sess.User.Username, h.config.Activity.PageSize)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "profile loaded", map[string]any{
		"user":       sess.User,
		"activities": activities,
	})
}
