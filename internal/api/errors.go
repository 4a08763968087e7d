package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
	apperrors "github.com/beingshakil/keyword-planner-tool/internal/errors"
	"github.com/beingshakil/keyword-planner-tool/internal/models"
	"github.com/beingshakil/keyword-planner-tool/internal/state"
)

// classify gives plain sentinel errors an application code
func classify(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, analysis.ErrEmptyInput),
		errors.Is(err, analysis.ErrNoHeaderFound),
		errors.Is(err, analysis.ErrUnsupportedFormat),
		errors.Is(err, state.ErrNothingLoaded):
		return apperrors.WithCode(apperrors.CodeInvalidInput, err)
	case errors.Is(err, analysis.ErrSheetNotFound):
		return apperrors.WithCode(apperrors.CodeNotFound, err)
	}
	return apperrors.Wrap(err, "internal error")
}

func statusForCode(code string) int {
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeValidationError:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status code and writes the JSON error body
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	code := apperrors.GetCode(err)
	status := statusForCode(code)

	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", code),
			zap.Error(err))
	}
	writeJSON(w, status, models.ErrorResponse{Error: apperrors.Message(err), Code: code})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	h.writeError(w, r, apperrors.InvalidInput(message))
}
