package handlers

import (
	"net/http"

	"pocket_study/internal/model"
	"pocket_study/internal/service"
	"pocket_study/internal/webutil"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(s service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Get(r.Context())
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, err)
		return
	}

	profile, err := h.service.Update(r.Context(), req)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile)
}
