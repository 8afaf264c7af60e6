package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pocket_study/internal/model"
	"pocket_study/internal/service"
	"pocket_study/internal/webutil"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(s service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: s}
}

func (h *ReviewHandler) GetDue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetDueEntries(r.Context(), 0)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	if entries == nil {
		entries = []*model.ScheduleEntry{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")

	var req model.SubmitReviewRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, err)
		return
	}
	if !req.Grade.Valid() {
		webutil.HandleError(w, model.NewAppError("INVALID_GRADE", "Grade must be between 0 and 3.", "grade", model.ErrInvalidInput))
		return
	}

	entry, err := h.service.RecordReview(r.Context(), itemID, req, 0)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, entry)
}
