package handler

import (
	"log/slog"
	"net/http"

	"dossier/internal/domain/models"
	"dossier/internal/httputil"
	"dossier/internal/service"
)

// FolderHandler exposes folder mutations.
type FolderHandler struct {
	folders *service.Folders
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders *service.Folders, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

// Create creates a folder
// POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := httputil.GetCaller(r)
	folder, err := h.folders.CreateFolder(r.Context(), &req, caller)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

type updateFolderRequest struct {
	Name   *string `json:"name,omitempty"`
	Target *string `json:"target,omitempty"` // move destination as a location string
}

// Update renames and/or moves a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil && req.Target == nil {
		httputil.RespondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	caller := httputil.GetCaller(r)
	var folder *models.Folder

	if req.Name != nil {
		var err error
		folder, err = h.folders.RenameFolder(r.Context(), id, *req.Name, caller)
		if err != nil {
			handleError(w, err)
			return
		}
	}

	if req.Target != nil {
		target, err := models.ParseLocation(*req.Target)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		folder, err = h.folders.MoveFolder(r.Context(), id, target, caller)
		if err != nil {
			handleError(w, err)
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// Delete removes a folder row
// DELETE /api/folders/{id}
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	caller := httputil.GetCaller(r)

	if err := h.folders.DeleteFolder(r.Context(), id, caller); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
