package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pocket_study/internal/model"
	"pocket_study/internal/service"
	"pocket_study/internal/webutil"
)

type CourseHandler struct {
	service service.CourseService
}

func NewCourseHandler(s service.CourseService) *CourseHandler {
	return &CourseHandler{service: s}
}

// Compile previews a DSL compile without installing anything.
func (h *CourseHandler) Compile(w http.ResponseWriter, r *http.Request) {
	var req model.CompileCourseRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, err)
		return
	}

	result, err := h.service.Compile(r.Context(), req)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, result)
}

func (h *CourseHandler) Install(w http.ResponseWriter, r *http.Request) {
	var req model.InstallCourseRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, err)
		return
	}

	result, err := h.service.Install(r.Context(), req, 0)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	installed, err := h.service.List(r.Context())
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	if installed == nil {
		installed = []*model.InstalledCourse{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, installed)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.Get(r.Context(), chi.URLParam(r, "course_id"))
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), chi.URLParam(r, "course_id")); err != nil {
		webutil.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
