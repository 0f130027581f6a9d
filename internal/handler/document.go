package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"dossier/internal/domain/models"
	"dossier/internal/httputil"
	"dossier/internal/service"
)

// DocumentHandler exposes document mutations and downloads.
type DocumentHandler struct {
	documents *service.Documents
	secure    *service.SecureFetch
	logger    *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *service.Documents, secure *service.SecureFetch, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, secure: secure, logger: logger}
}

type renameDocumentRequest struct {
	Name string `json:"name"`
}

// Rename updates the document name
// PATCH /api/documents/{id}
func (h *DocumentHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req renameDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := httputil.GetCaller(r)
	doc, err := h.documents.RenameDocument(r.Context(), id, req.Name, caller)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

type moveDocumentRequest struct {
	Target string `json:"target"` // destination as a location string
}

// Move reattaches the document to a folder, a mission, or the root
// PATCH /api/documents/{id}/move
func (h *DocumentHandler) Move(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req moveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, err := models.ParseLocation(req.Target)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := httputil.GetCaller(r)
	doc, err := h.documents.MoveDocument(r.Context(), id, target, caller)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// deleteDocumentRequest identifies a personal document, which has no row to
// look up: the owner plus the path ID are enough to re-synthesize the node
// server-side. Omitted for persisted documents.
type deleteDocumentRequest struct {
	Personal bool   `json:"personal,omitempty"`
	OwnerID  string `json:"owner_id,omitempty"`
}

// Delete removes a document node
// DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	caller := httputil.GetCaller(r)

	var req deleteDocumentRequest
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var (
		doc *models.Document
		err error
	)
	if req.Personal {
		// Never trust the claimed node: rebuild it from the profile and
		// require the ID to match a synthesized document.
		doc, err = h.documents.ResolvePersonal(r.Context(), req.OwnerID, id, caller)
	} else {
		doc, err = h.documents.GetDocument(r.Context(), id, caller)
	}
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.documents.DeleteDocument(r.Context(), doc, caller); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download serves the document payload. Restricted documents go through
// the authenticated gateway and are streamed back; everything else gets a
// short-lived presigned URL.
// GET /api/documents/{id}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	caller := httputil.GetCaller(r)

	doc, err := h.documents.GetDocument(r.Context(), id, caller)
	if err != nil {
		handleError(w, err)
		return
	}

	if doc.Restricted && h.secure != nil {
		bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		payload, contentType, err := h.secure.Fetch(r.Context(), doc.StoragePath, bearer)
		if err != nil {
			handleError(w, err)
			return
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(payload)
		return
	}

	url, err := h.documents.DownloadURL(r.Context(), id, caller)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}
