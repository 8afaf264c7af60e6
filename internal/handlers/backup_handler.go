package handlers

import (
	"net/http"

	"pocket_study/internal/model"
	"pocket_study/internal/service"
	"pocket_study/internal/webutil"
)

type BackupHandler struct {
	service service.BackupService
}

func NewBackupHandler(s service.BackupService) *BackupHandler {
	return &BackupHandler{service: s}
}

func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Export(r.Context(), 0)
	if err != nil {
		webutil.HandleError(w, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, snapshot)
}

func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var snapshot model.Snapshot
	if err := webutil.DecodeJSONBody(r, &snapshot); err != nil {
		webutil.HandleError(w, err)
		return
	}

	if err := h.service.Import(r.Context(), &snapshot); err != nil {
		webutil.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
