package handler

import (
	"log/slog"
	"net/http"

	"dossier/internal/domain/models"
	"dossier/internal/httputil"
	"dossier/internal/service"
)

// BrowseHandler serves namespace listings and size aggregates.
type BrowseHandler struct {
	namespace *service.Namespace
	sizes     *service.SizeAggregator
	logger    *slog.Logger
}

// NewBrowseHandler creates a new browse handler
func NewBrowseHandler(namespace *service.Namespace, sizes *service.SizeAggregator, logger *slog.Logger) *BrowseHandler {
	return &BrowseHandler{namespace: namespace, sizes: sizes, logger: logger}
}

// GetListing resolves the children of a location
// GET /api/browse?location=folder:<id>
func (h *BrowseHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	loc, err := models.ParseLocation(r.URL.Query().Get("location"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := httputil.GetCaller(r)
	listing, err := h.namespace.ResolveChildren(r.Context(), loc, caller)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// GetSize computes the recursive byte total under a location
// GET /api/browse/size?location=mission:<id>
func (h *BrowseHandler) GetSize(w http.ResponseWriter, r *http.Request) {
	loc, err := models.ParseLocation(r.URL.Query().Get("location"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := httputil.GetCaller(r)
	size, err := h.sizes.ComputeSize(r.Context(), loc, caller.StructureID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"location": loc.String(),
		"size":     size,
	})
}
