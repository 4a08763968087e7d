package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
	"github.com/beingshakil/keyword-planner-tool/internal/models"
	"github.com/beingshakil/keyword-planner-tool/internal/service"
)

// ============================================================================
// Stateless parsing and scoring
// ============================================================================

// Parse turns a raw delimited body into a table without touching the workspace
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.Options.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.badRequest(w, r, "body exceeds the upload limit")
			return
		}
		h.badRequest(w, r, "Failed to read body")
		return
	}

	text, err := analysis.DecodeText(body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	table, err := analysis.ParseDelimited(text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) ScoreCandidates(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	threshold := h.Options.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	scores := make([]models.CandidateScore, len(req.Candidates))
	for i, c := range req.Candidates {
		score := service.Score(req.Query, c)
		scores[i] = models.CandidateScore{Candidate: c, Score: score, Match: score >= threshold}
	}

	writeJSON(w, http.StatusOK, models.ScoreResponse{
		Query:     req.Query,
		Threshold: threshold,
		Scores:    scores,
	})
}
