package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/beingshakil/keyword-planner-tool/internal/service"
	"github.com/beingshakil/keyword-planner-tool/internal/state"
	"github.com/beingshakil/keyword-planner-tool/internal/store"
)

// Options carries request-level settings taken from the configuration
type Options struct {
	DefaultThreshold float64
	MaxUploadBytes   int64
}

// DefaultOptions matches the default configuration
func DefaultOptions() Options {
	return Options{
		DefaultThreshold: service.DefaultThreshold,
		MaxUploadBytes:   100 << 20,
	}
}

type Handler struct {
	Workspace *state.Workspace
	Search    *service.KeywordSearch
	Export    *service.ExportService
	Lists     *store.ListStore
	Options   Options
	Logger    *zap.Logger
}

func NewHandler(ws *state.Workspace, search *service.KeywordSearch, export *service.ExportService, lists *store.ListStore, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Workspace: ws,
		Search:    search,
		Export:    export,
		Lists:     lists,
		Options:   opts,
		Logger:    logger.Named("api"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	// Workspace
	r.Post("/api/upload", h.Upload)
	r.Delete("/api/upload", h.Unload)
	r.Get("/api/sheets", h.GetSheets)
	r.Post("/api/switch-sheet", h.SwitchSheet)
	r.Get("/api/status", h.GetStatus)
	r.Get("/api/column-types", h.GetColumnTypes)
	r.Get("/api/stats", h.GetStats)

	// Search and export
	r.Get("/api/keywords", h.GetKeywords)
	r.Post("/api/export", h.ExportSelected)

	// Stateless tools
	r.Post("/api/parse", h.Parse)
	r.Post("/api/score", h.ScoreCandidates)

	// Saved lists
	r.Route("/api/lists", func(r chi.Router) {
		r.Get("/", h.ListLists)
		r.Post("/", h.CreateList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetList)
			r.Patch("/", h.RenameList)
			r.Delete("/", h.DeleteList)
			r.Get("/export", h.ExportList)
			r.Post("/keywords", h.AddListKeywords)
			r.Delete("/keywords/{keyword}", h.RemoveListKeyword)
		})
	})
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func getIntParam(r *http.Request, name string, defaultVal int) int {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
