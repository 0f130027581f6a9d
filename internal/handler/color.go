package handler

import (
	"log/slog"
	"net/http"

	"dossier/internal/domain/models"
	"dossier/internal/httputil"
	"dossier/internal/service"
)

// ColorHandler exposes color assignment for folder-like nodes.
type ColorHandler struct {
	colors *service.Colors
	logger *slog.Logger
}

// NewColorHandler creates a new color handler
func NewColorHandler(colors *service.Colors, logger *slog.Logger) *ColorHandler {
	return &ColorHandler{colors: colors, logger: logger}
}

type setColorRequest struct {
	Kind  models.FolderKind `json:"kind"`
	Color string            `json:"color"` // empty clears
}

// SetColor stores the color for the node
// PATCH /api/nodes/{id}/color
func (h *ColorHandler) SetColor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req setColorRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := httputil.GetCaller(r)
	if err := h.colors.SetColor(r.Context(), req.Kind, id, req.Color, caller); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
