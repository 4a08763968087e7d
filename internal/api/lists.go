package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
	"github.com/beingshakil/keyword-planner-tool/internal/service"
)

// ============================================================================
// Saved lists
// ============================================================================

func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Lists.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req models.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	list, err := h.Lists.Create(r.Context(), req.Name, req.Keywords)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Lists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) RenameList(w http.ResponseWriter, r *http.Request) {
	var req models.RenameListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	list, err := h.Lists.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.Lists.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddListKeywords(w http.ResponseWriter, r *http.Request) {
	var req models.AddKeywordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	added, err := h.Lists.AddKeywords(r.Context(), id, req.Keywords)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.Lists.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.AddKeywordsResponse{Added: added, List: list})
}

func (h *Handler) RemoveListKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")
	if unescaped, err := url.PathUnescape(keyword); err == nil {
		keyword = unescaped
	}
	if err := h.Lists.RemoveKeyword(r.Context(), chi.URLParam(r, "id"), keyword); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Lists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.Export.ListCSV(&buf, list); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCSV(w, service.ListFileName(list.Name), buf.Bytes())
}
