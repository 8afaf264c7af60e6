package handlers

import (
	"net/http"

	"pocket_study/internal/model"
	"pocket_study/internal/service"
	"pocket_study/internal/webutil"
)

type SessionHandler struct {
	service service.SessionService
}

func NewSessionHandler(s service.SessionService) *SessionHandler {
	return &SessionHandler{service: s}
}

func (h *SessionHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.service.GetQueue(r.Context(), 0)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, queue)
}

func (h *SessionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req model.EvaluateAnswerRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, err)
		return
	}

	correct, err := h.service.Evaluate(r.Context(), req)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.EvaluateAnswerResponse{Correct: correct})
}
