package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
	"github.com/beingshakil/keyword-planner-tool/internal/service"
	"github.com/beingshakil/keyword-planner-tool/internal/state"
)

// ============================================================================
// Keyword search
// ============================================================================

func (h *Handler) GetKeywords(w http.ResponseWriter, r *http.Request) {
	pageSize := getIntParam(r, "page_size", 0)

	cur := h.Workspace.Current()
	if cur == nil {
		writeJSON(w, http.StatusOK, models.KeywordsResponse{
			Results:    []models.KeywordResult{},
			Pagination: models.Pagination{Page: 1, PageSize: h.Search.PageSize(pageSize), TotalPages: 0, TotalResults: 0},
			SheetInfo:  models.SheetInfo{AvailableSheets: []string{}},
		})
		return
	}

	threshold, err := getFloatParam(r, "threshold", h.Options.DefaultThreshold)
	if err != nil {
		h.badRequest(w, r, "threshold must be a number")
		return
	}

	q := r.URL.Query()
	query := service.SearchQuery{
		Term:         q.Get("search"),
		Mode:         service.ParseSearchMode(q.Get("search_type")),
		Threshold:    threshold,
		VolumeFilter: q.Get("volume_filter"),
		SortBy:       q.Get("sort"),
		Descending:   strings.EqualFold(q.Get("order"), "desc"),
		Page:         getIntParam(r, "page", 1),
		PageSize:     pageSize,
	}

	res, err := h.Search.Search(r.Context(), cur.Table, cur.Analysis, query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.KeywordsResponse{
		Results:    res.Results,
		Pagination: res.Pagination,
		SheetInfo: models.SheetInfo{
			CurrentSheet:    cur.CurrentSheet,
			AvailableSheets: cur.Sheets,
		},
	})
}

// ============================================================================
// Export
// ============================================================================

func (h *Handler) ExportSelected(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}
	if len(req.Keywords) == 0 {
		h.badRequest(w, r, "No keywords selected")
		return
	}

	cur := h.Workspace.Current()
	if cur == nil {
		h.writeError(w, r, state.ErrNothingLoaded)
		return
	}

	var buf bytes.Buffer
	n, err := h.Export.SelectedCSV(&buf, cur.Table, cur.Analysis, req.Keywords)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("selection exported", zap.Int("requested", len(req.Keywords)), zap.Int("rows", n))

	writeCSV(w, service.ExportFileName(cur.CurrentSheet), buf.Bytes())
}

func writeCSV(w http.ResponseWriter, fileName string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", service.ContentDisposition(fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func getFloatParam(r *http.Request, name string, defaultVal float64) (float64, error) {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(valStr, 64)
}
