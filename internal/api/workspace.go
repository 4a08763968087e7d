package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
	"github.com/beingshakil/keyword-planner-tool/internal/models"
	"github.com/beingshakil/keyword-planner-tool/internal/state"
)

// multipart parts beyond this size are spooled to disk
const maxMemoryBytes = 32 << 20

// ============================================================================
// Upload and sheets
// ============================================================================

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Options.MaxUploadBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.badRequest(w, r, fmt.Sprintf("file exceeds the %d byte upload limit", tooLarge.Limit))
			return
		}
		h.badRequest(w, r, "Failed to parse form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, r, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.badRequest(w, r, "Failed to read file")
		return
	}

	res, err := h.Workspace.Load(r.Context(), header.Filename, data, r.FormValue("sheet"))
	if err != nil {
		h.Logger.Warn("upload rejected", zap.String("file", header.Filename), zap.Error(err))
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse(res))
}

// Unload drops the current file. Saved lists are unaffected.
func (h *Handler) Unload(w http.ResponseWriter, r *http.Request) {
	h.Workspace.Clear()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GetSheets(w http.ResponseWriter, r *http.Request) {
	cur := h.Workspace.Current()
	if cur == nil {
		writeJSON(w, http.StatusOK, models.SheetsResponse{Sheets: []string{}})
		return
	}
	writeJSON(w, http.StatusOK, models.SheetsResponse{Sheets: cur.Sheets, CurrentSheet: cur.CurrentSheet})
}

func (h *Handler) SwitchSheet(w http.ResponseWriter, r *http.Request) {
	var req models.SwitchSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}
	if req.Sheet == "" {
		h.badRequest(w, r, "sheet is required")
		return
	}

	res, err := h.Workspace.SwitchSheet(r.Context(), req.Sheet)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse(res))
}

func uploadResponse(res *analysis.ImportResult) models.UploadResponse {
	return models.UploadResponse{
		Success:      true,
		Message:      fmt.Sprintf("Loaded %d rows from %s", res.Table.NumRows(), res.CurrentSheet),
		FileName:     res.FileName,
		Format:       res.Format,
		Rows:         res.Table.NumRows(),
		Columns:      res.Table.NumColumns(),
		ColumnNames:  res.Table.Headers,
		Sheets:       res.Sheets,
		CurrentSheet: res.CurrentSheet,
		Warnings:     res.Table.Warnings,
	}
}

// ============================================================================
// Status and analysis
// ============================================================================

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	cur := h.Workspace.Current()
	if cur == nil {
		writeJSON(w, http.StatusOK, models.StatusResponse{Loaded: false})
		return
	}
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Loaded:        true,
		FileName:      cur.FileName,
		Format:        cur.Format,
		Rows:          cur.Table.NumRows(),
		Columns:       cur.Table.NumColumns(),
		KeywordColumn: cur.Analysis.KeywordColumn,
		VolumeColumn:  cur.Analysis.VolumeColumn,
		ValueColumn:   cur.Analysis.ValueColumn,
	})
}

func (h *Handler) GetColumnTypes(w http.ResponseWriter, r *http.Request) {
	cur := h.Workspace.Current()
	if cur == nil {
		h.writeError(w, r, state.ErrNothingLoaded)
		return
	}
	writeJSON(w, http.StatusOK, cur.Analysis)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	cur := h.Workspace.Current()
	if cur == nil {
		h.writeError(w, r, state.ErrNothingLoaded)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns":  analysis.NumericStats(cur.Table, cur.Analysis),
		"profiles": analysis.ProfileTable(cur.Table),
	})
}
